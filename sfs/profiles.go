package sfs

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
)

// DiskProfile is a named image-size preset, so a caller can write
// "format PATH small" instead of having to know "100 blocks" offhand.
type DiskProfile struct {
	Name        string `csv:"name"`
	Blocks      uint32 `csv:"blocks"`
	Description string `csv:"description"`
}

//go:embed presets.csv
var presetsCSV string

var profilesByName map[string]DiskProfile

func init() {
	profilesByName = make(map[string]DiskProfile)

	var rows []DiskProfile
	if err := gocsv.UnmarshalString(presetsCSV, &rows); err != nil {
		panic(fmt.Sprintf("sfs: malformed embedded presets.csv: %s", err))
	}
	for _, row := range rows {
		profilesByName[strings.ToLower(row.Name)] = row
	}
}

// ProfileByName looks up a named disk-size preset.
func ProfileByName(name string) (DiskProfile, bool) {
	profile, ok := profilesByName[strings.ToLower(name)]
	return profile, ok
}

// Profiles returns every known preset.
func Profiles() []DiskProfile {
	profiles := make([]DiskProfile, 0, len(profilesByName))
	for _, profile := range profilesByName {
		profiles = append(profiles, profile)
	}
	return profiles
}
