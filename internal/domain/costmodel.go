package domain

// FacilityTier classifies warehouse candidates by their role in the network.
type FacilityTier string

const (
	FacilityTierMain     FacilityTier = "Main"
	FacilityTierRegional FacilityTier = "Regional"
)

// FacilityCandidate is a warehouse location considered by the network optimizer.
// Rent is a monthly per-sqft proxy used for both scoring and annualized cost.
type FacilityCandidate struct {
	Name string       `json:"name"`
	Rent float64      `json:"rent"`
	Lat  float64      `json:"lat"`
	Lon  float64      `json:"lon"`
	Tier FacilityTier `json:"tier"`
}

// DemandZone is the centroid of a demand region used for shipping-distance math.
type DemandZone struct {
	Region Region  `json:"region"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// CurrentMainHub is the facility the business operates from today; relocation
// advice is phrased relative to it.
const CurrentMainHub = "North_Delhi"

var facilityCandidates = []FacilityCandidate{
	{Name: "North_Delhi", Rent: 35, Lat: 28.61, Lon: 77.23, Tier: FacilityTierMain},
	{Name: "West_Mumbai", Rent: 45, Lat: 19.07, Lon: 72.87, Tier: FacilityTierMain},
	{Name: "South_Bangalore", Rent: 40, Lat: 12.97, Lon: 77.59, Tier: FacilityTierRegional},
	{Name: "East_Kolkata", Rent: 25, Lat: 22.57, Lon: 88.36, Tier: FacilityTierRegional},
	{Name: "Central_Hyderabad", Rent: 30, Lat: 17.38, Lon: 78.48, Tier: FacilityTierRegional},
}

var demandZones = map[Region]DemandZone{
	RegionNorth: {Region: RegionNorth, Lat: 28.7, Lon: 77.1},
	RegionWest:  {Region: RegionWest, Lat: 19.0, Lon: 72.8},
	RegionSouth: {Region: RegionSouth, Lat: 12.9, Lon: 77.5},
	RegionEast:  {Region: RegionEast, Lat: 22.5, Lon: 88.3},
}

// FacilityCandidates returns the static list of warehouse candidates.
func FacilityCandidates() []FacilityCandidate {
	out := make([]FacilityCandidate, len(facilityCandidates))
	copy(out, facilityCandidates)
	return out
}

// ZoneFor resolves a region to its demand zone, defaulting to North for
// regions outside the closed enumeration.
func ZoneFor(r Region) DemandZone {
	if z, ok := demandZones[r]; ok {
		return z
	}
	return demandZones[RegionNorth]
}
