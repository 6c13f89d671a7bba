package driver

import (
	"path/filepath"
	"strings"
)

// Language identifies an input format by file extension.
type Language uint8

const (
	LangUnknown Language = iota
	LangShadyIR          // textual IR (.shd, .shady)
	LangLLVM             // .ll, .bc
	LangSPIRV            // .spv
)

func (l Language) String() string {
	switch l {
	case LangShadyIR:
		return "shady-ir"
	case LangLLVM:
		return "llvm"
	case LangSPIRV:
		return "spirv"
	default:
		return "unknown"
	}
}

// Available reports whether a front-end exists for l.
func (l Language) Available() bool {
	return l == LangShadyIR
}

// GuessLanguage maps a path's extension to a Language.
func GuessLanguage(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shd", ".shady":
		return LangShadyIR
	case ".ll", ".bc":
		return LangLLVM
	case ".spv":
		return LangSPIRV
	default:
		return LangUnknown
	}
}
