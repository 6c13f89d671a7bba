package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
}

var inlineSeeds = []string{
	"",
	"%a = unit",
	"%a = int(width: 32, signed: true)\n%b = int_literal(width: 32, signed: true, value: 0x7f)",
	"%s = string_literal(value: \"h\\u00e9llo\")",
	"%a = record_type(members: [bool, unit, int(width: 8, signed: false)])",
	"%c = constant(name: \"c\")\nbody %c = %c",
	"%x = variable(type: bool, name: \"x\", id: 0)",
	"%a = ptr_type(address_space: generic, pointee: %a)",
	"%a = frob(",
	"%a = [",
	"body %a = %b",
	"%é = unit\n%é = bool",
	"\"unterminated",
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext != ".shd" && ext != ".shady" {
			return nil
		}
		// #nosec G304 -- path comes from the repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}
