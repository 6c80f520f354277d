// Package domain models the historical-ecology dataset assembled for the
// Black Mountain College era (1933-1957).
//
// # Data Sources
//
// Occurrence records come from two public biodiversity APIs:
//
//	GBIF (https://api.gbif.org/v1): preserved museum specimens and other
//	occurrence records, queried per taxon key with offset pagination. The
//	taxon keys used are GBIF backbone identifiers: Plantae=6, Insecta=212,
//	Lepidoptera=797, Coleoptera=1457, Hymenoptera=1459, Odonata=216,
//	Orthoptera=220.
//
//	iNaturalist (https://api.inaturalist.org/v1): modern observations used
//	as a presence baseline, since a species observed in the county today and
//	native to the region was almost certainly present in the 1930s-1950s.
//	Species lists are paged through observations/species_counts.
//
// Weather comes from the Open-Meteo historical archive
// (https://archive-api.open-meteo.com/v1/archive), which starts in 1940;
// the 1933-1939 years are synthesized from 1940-1949 monthly averages and
// carry an explicit estimated flag.
//
// The Coweeta Hydrologic Laboratory (LTER site, Macon County NC, ~97 km from
// the study site) supplies the scientific baseline for the era: forest
// composition before and after the chestnut blight, wildlife records, and
// climate normals. Its dataset list is fetched from the EDI repository
// (https://pasta.lternet.edu/package).
//
// # Artifacts
//
// Every pipeline component writes exactly one processed artifact: an
// indented UTF-8 JSON file with a metadata block and a dataset-specific
// payload. Artifacts are immutable once written; downstream components read
// and recombine, never patch in place. A missing artifact is normal and
// means "no data available", never an error.
//
// # Yearly Status Conventions
//
// Chestnut blight status buckets follow the documented progression of the
// blight through the Southern Appalachians:
//
//	≤1933  dying                40% survival   active spread, trees standing
//	≤1938  mass_mortality       15% survival   peak mortality period
//	≤1945  functionally_extinct  2% survival   mature trees essentially gone
//	>1945  extinct_as_canopy     0% survival   only root sprouts remain
//
// Root sprouts are "emerging" before 1935 and "present" after; salvage
// logging of dead chestnut ran 1935-1945.
//
// Pesticide-era thresholds: DDT was released for civilian use in 1945 and
// adopted by agriculture in 1946; regional usage is bucketed low (<1945,
// arsenicals and botanicals), moderate (<1950), high (≥1950, plus the 1954
// fire ant program note).
package domain
