package valueobjects

import "fmt"

// AssetType classifies the electrical asset a node stands for
type AssetType string

const (
	AssetBus         AssetType = "bus"
	AssetTransformer AssetType = "transformer"
	AssetSwitch      AssetType = "switch"
	AssetLine        AssetType = "line"
	AssetEVCharger   AssetType = "ev_charger"
	AssetDER         AssetType = "der"
)

// AllAssetTypes lists the palette in display order
var AllAssetTypes = []AssetType{
	AssetBus,
	AssetTransformer,
	AssetSwitch,
	AssetLine,
	AssetEVCharger,
	AssetDER,
}

// ParseAssetType converts a wire value into an AssetType.
// An empty value is treated as a bus, matching how untyped canvas nodes were sent to the simulators.
func ParseAssetType(s string) (AssetType, error) {
	if s == "" {
		return AssetBus, nil
	}
	t := AssetType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown asset type %q", s)
	}
	return t, nil
}

// IsValid returns true if the asset type is known
func (t AssetType) IsValid() bool {
	switch t {
	case AssetBus, AssetTransformer, AssetSwitch, AssetLine, AssetEVCharger, AssetDER:
		return true
	default:
		return false
	}
}

// String returns the string representation of the asset type
func (t AssetType) String() string {
	return string(t)
}

// ProfileType is the coarse feeder category passed to the simulators
type ProfileType string

const (
	ProfileRural    ProfileType = "rural"
	ProfileSuburban ProfileType = "suburban"
	ProfileUrban    ProfileType = "urban"
)

// DefaultProfile is used for drafts until the operator picks one
const DefaultProfile = ProfileSuburban

// ParseProfileType converts a wire value into a ProfileType
func ParseProfileType(s string) (ProfileType, error) {
	if s == "" {
		return DefaultProfile, nil
	}
	p := ProfileType(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown profile type %q", s)
	}
	return p, nil
}

// IsValid returns true if the profile type is known
func (p ProfileType) IsValid() bool {
	switch p {
	case ProfileRural, ProfileSuburban, ProfileUrban:
		return true
	default:
		return false
	}
}

// String returns the string representation of the profile type
func (p ProfileType) String() string {
	return string(p)
}
