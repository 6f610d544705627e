// Package calcfile has functions for loading calculator definitions using the
// TQC file format, a TOML-based format that gives settings, pre-bound
// variables, and Starlark-scripted functions for a calculator to start with.
package calcfile

import (
	"errors"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/tunacalc/syntax"
)

const MaxManifestRecursionDepth = 32

var (
	// ErrManifestEmpty is the error returned when a manifest file is read
	// successfully but specifies no additional files to load.
	ErrManifestEmpty = errors.New("does not list any valid files to include")

	// ErrManifestStackOverflow is the error returned when the recusion level of
	// MaxManifestRecursionDepth is reached and an additional Manifest is then
	// specified, which would cause recursion to go deeper.
	ErrManifestStackOverflow = errors.New("too many manifests deep")

	// ErrManifestCircularRef is the error returned when a manifest specifies any
	// series of files that with their own manifests refer back to the original
	// manifest, and therefore cannot be followed.
	ErrManifestCircularRef = errors.New("manifest inclusion chain refers back to itself")
)

// Var is a variable binding given in a TQC file. Value is a decimal.Decimal,
// a bool, or a string.
type Var struct {
	Name  string
	Value any
}

// Bundle contains data loaded from one or more TQC data files.
type Bundle struct {
	// MaxDepth is the nesting limit for function calls. 0 means the file did
	// not set one.
	MaxDepth int

	// Vars are in the order they were defined.
	Vars []Var

	// Functions are compiled and ready to register.
	Functions []syntax.Func
}

// FileInfo contains the essential information all TQC format files must
// contain. It can be obtained from a file by reading it into memory and calling
// ScanFileInfo on the bytes.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// Load loads a calculator definition from the given TQC file. The file's type
// is auto-detected; it can either be "DATA" type or "MANIFEST" type. If it's
// manifest type, the files listed in it relative to it will also be loaded,
// recursively. All files included are combined into one single set of data
// before being checked.
func Load(path string) (Bundle, error) {
	unmarshaled, err := recursiveUnmarshalResource(path, nil)
	if err != nil {
		return Bundle{}, err
	}

	return parseBundle(unmarshaled)
}

// ScanFileInfo takes the given data bytes and attempts to read the TQC format
// common header info from it. The bytes are read up to the first instance of a
// table definition header and those bytes are parsed for the info.
func ScanFileInfo(data []byte) (FileInfo, error) {
	// only run the toml parser up to the end of the top-lev table
	var topLevelEnd int = -1
	onNewLine := true
	for b := range data {
		if onNewLine {
			if data[b] == '[' {
				topLevelEnd = b
				break
			}
		}

		if data[b] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[b])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	var info FileInfo
	err := toml.Unmarshal(scanData, &info)
	return info, err
}
