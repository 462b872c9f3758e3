package shellbags

import (
	"strings"
	"unicode"

	"github.com/joshuapare/shellbags/pkg/types"
)

// Root-level and drive item layout.
const (
	rootTypeOffset   = 3
	rootTypeComputer = 0x50
	rootGUIDOffset   = 4
	rootGUIDEnd      = rootGUIDOffset + 16

	driveTypeOffset = 2
	driveType       = 0x2f
	driveLabelStart = 3
	driveLabelEnd   = 5
)

// Drive is a drive item found below This PC.
type Drive struct {
	Key   string // value (and subkey) name, e.g. "0"
	Label string // drive letter with colon, e.g. "C:"
}

// IsDecimal reports whether name is a non-empty run of decimal digits.
// Only such names identify shell item entries.
func IsDecimal(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// FindThisPC returns the name of the first numbered value that is a root
// folder item pointing at the Computer folder.
func FindThisPC(values []types.Value) (string, bool) {
	name, _, ok := findThisPC(values)
	return name, ok
}

// findThisPC is FindThisPC that also returns the matched folder GUID.
func findThisPC(values []types.Value) (string, GUID, bool) {
	for _, v := range values {
		if !IsDecimal(v.Name) {
			continue
		}
		if g, ok := rootFolder(v); ok && g.String() == ComputerFolderID {
			return v.Name, g, true
		}
	}
	return "", GUID{}, false
}

// rootFolder returns the folder GUID of a root folder item.
func rootFolder(v types.Value) (GUID, bool) {
	if len(v.Data) < rootGUIDEnd || v.Data[rootTypeOffset] != rootTypeComputer {
		return GUID{}, false
	}
	g, err := DecodeGUID(v.Data[rootGUIDOffset:rootGUIDEnd])
	return g, err == nil
}

// FindDrives returns the drive items among the numbered values of the
// This PC key, in value order. Other items are skipped.
func FindDrives(values []types.Value) []Drive {
	var drives []Drive
	for _, v := range values {
		if !IsDecimal(v.Name) || len(v.Data) < driveLabelEnd {
			continue
		}
		if v.Data[driveTypeOffset] != driveType {
			continue
		}
		label := strings.ToValidUTF8(string(v.Data[driveLabelStart:driveLabelEnd]), "")
		drives = append(drives, Drive{Key: v.Name, Label: label})
	}
	return drives
}
