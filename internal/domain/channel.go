package domain

// Channel identifies a sales venue with its own fee, logistics and
// marketing economics.
type Channel string

const (
	ChannelAmazon     Channel = "Amazon"
	ChannelFlipkart   Channel = "Flipkart"
	ChannelOwnWebsite Channel = "Own_Website"
)

// Channels returns the closed set of supported sales channels in a stable order.
func Channels() []Channel {
	return []Channel{ChannelAmazon, ChannelFlipkart, ChannelOwnWebsite}
}

// Region identifies a demand region served by the fulfillment network.
type Region string

const (
	RegionNorth Region = "North"
	RegionWest  Region = "West"
	RegionSouth Region = "South"
	RegionEast  Region = "East"
)

// Regions returns the closed set of demand regions in a stable order.
func Regions() []Region {
	return []Region{RegionNorth, RegionWest, RegionSouth, RegionEast}
}

// ChannelType distinguishes marketplace channels (bulk shipping to a
// fulfillment center) from direct-to-consumer (last-mile from own warehouse).
type ChannelType string

const (
	ChannelTypeMarketplace ChannelType = "Marketplace"
	ChannelTypeD2C         ChannelType = "D2C"
)

// ChannelProfile holds the static fee/traffic/marketing parameters for one channel.
type ChannelProfile struct {
	Type         ChannelType `json:"type"`
	ReferralFee  float64     `json:"referral_fee"`  // fraction of revenue
	ClosingFee   float64     `json:"closing_fee"`   // fixed per unit
	TrafficScore float64     `json:"traffic_score"` // max fraction of inventory the channel can absorb
	MarketingCAC float64     `json:"marketing_cac"` // fraction of revenue spent on acquisition
}

// channelProfiles is keyed by the closed Channel enumeration. Fees reflect
// current marketplace rate cards; Own_Website carries only gateway fees but a
// heavy paid-acquisition load.
var channelProfiles = map[Channel]ChannelProfile{
	ChannelAmazon: {
		Type:         ChannelTypeMarketplace,
		ReferralFee:  0.15,
		ClosingFee:   30,
		TrafficScore: 0.50,
		MarketingCAC: 0.05,
	},
	ChannelFlipkart: {
		Type:         ChannelTypeMarketplace,
		ReferralFee:  0.13,
		ClosingFee:   20,
		TrafficScore: 0.40,
		MarketingCAC: 0.06,
	},
	ChannelOwnWebsite: {
		Type:         ChannelTypeD2C,
		ReferralFee:  0.03,
		ClosingFee:   0,
		TrafficScore: 0.35,
		MarketingCAC: 0.20,
	},
}

// ProfileFor returns the cost profile for a channel. Unknown channels fall
// back to the Amazon marketplace profile; the second return value reports
// whether the channel was recognized so callers can log the defaulting.
func ProfileFor(ch Channel) (ChannelProfile, bool) {
	if p, ok := channelProfiles[ch]; ok {
		return p, true
	}
	return channelProfiles[ChannelAmazon], false
}
