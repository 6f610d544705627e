package calcfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const formatName = "TQC"

// manifStack is used to detect circular references and to cap recursion at
// MaxManifestRecursionDepth levels.
//
// Returns ErrManifestEmpty if and only if the first manifest in the stack is
// empty, otherwise it is not an error.
func recursiveUnmarshalResource(path string, manifStack []string) (topLevelData, error) {
	path = filepath.Clean(path)

	fileData, loadErr := os.ReadFile(path)
	if loadErr != nil {
		return topLevelData{}, fmt.Errorf("%q: reading from disk: %w", path, loadErr)
	}

	fileInfo, err := ScanFileInfo(fileData)
	if err != nil {
		return topLevelData{}, fmt.Errorf("%q: detecting file type: %w", path, err)
	}

	if strings.ToUpper(fileInfo.Format) != formatName {
		return topLevelData{}, fmt.Errorf("%q: file does not have a 'format = \"%s\"' entry", path, formatName)
	}

	switch strings.ToUpper(fileInfo.Type) {
	case "DATA":
		unmarshaled, err := unmarshalData(fileData, path)
		if err != nil {
			return unmarshaled, fmt.Errorf("data file %q: %w", path, err)
		}
		return unmarshaled, nil
	case "MANIFEST":
		if len(manifStack) >= MaxManifestRecursionDepth {
			return topLevelData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestStackOverflow)
		}
		for i := range manifStack {
			if manifStack[i] == path {
				return topLevelData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestCircularRef)
			}
		}

		manif, err := unmarshalManifest(fileData)
		if err != nil {
			return topLevelData{}, fmt.Errorf("manifest file %q: %w", path, err)
		}

		if len(manif.Files) < 1 && len(manifStack) == 0 {
			return topLevelData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}

		combined := topLevelData{}

		manifSubStack := make([]string, len(manifStack)+1)
		copy(manifSubStack, manifStack)
		manifSubStack[len(manifSubStack)-1] = path

		manifDir := filepath.Dir(path)
		processedFiles := 0

		for _, manifRelPath := range manif.Files {
			includedFilePath := filepath.Join(manifDir, manifRelPath)

			included, err := recursiveUnmarshalResource(includedFilePath, manifSubStack)
			if err != nil {
				// a circular reference is skipped, not fatal
				if errors.Is(err, ErrManifestCircularRef) {
					continue
				}

				return topLevelData{}, fmt.Errorf("in file referred to by manifest file:\n    %q\n%w", path, err)
			}

			if included.Calc.MaxDepth != 0 {
				if combined.Calc.MaxDepth != 0 {
					return combined, fmt.Errorf("data file %q: duplicate max_depth; it has already been set to %d", includedFilePath, combined.Calc.MaxDepth)
				}
				combined.Calc.MaxDepth = included.Calc.MaxDepth
			}
			combined.Vars = append(combined.Vars, included.Vars...)
			combined.Functions = append(combined.Functions, included.Functions...)
			processedFiles++
		}

		if len(manifStack) == 0 && processedFiles == 0 {
			return combined, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}
		return combined, nil

	default:
		return topLevelData{}, fmt.Errorf("%q: file does not have 'type = ' entry set to either \"DATA\" or \"MANIFEST\"", path)
	}
}

// unmarshalData unmarshals calculator data from the given bytes. It does not
// parse or check the data.
func unmarshalData(tomlData []byte, path string) (topLevelData, error) {
	var tqc topLevelData
	if tomlErr := toml.Unmarshal(tomlData, &tqc); tomlErr != nil {
		return tqc, tomlErr
	}

	if strings.ToUpper(tqc.Format) != formatName {
		return tqc, fmt.Errorf("in header: 'format' key must exist and be set to '%s'", formatName)
	}
	if strings.ToUpper(tqc.Type) != "DATA" {
		return tqc, fmt.Errorf("in header: 'type' must exist and be set to 'DATA'")
	}

	for i := range tqc.Functions {
		tqc.Functions[i].source = path
	}

	return tqc, nil
}

// unmarshalManifest unmarshals a TQC manifest from the given bytes.
func unmarshalManifest(tomlData []byte) (topLevelManifest, error) {
	var tqc topLevelManifest
	if tomlErr := toml.Unmarshal(tomlData, &tqc); tomlErr != nil {
		return tqc, tomlErr
	}

	if strings.ToUpper(tqc.Format) != formatName {
		return tqc, fmt.Errorf("in header: 'format' key must exist and be set to '%s'", formatName)
	}
	if strings.ToUpper(tqc.Type) != "MANIFEST" {
		return tqc, fmt.Errorf("in header: 'type' must exist and be set to 'MANIFEST'")
	}

	return tqc, nil
}
