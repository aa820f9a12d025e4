package beadplot

import (
	"io"
	"path"
	"strings"
	"unicode"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText performs Unicode normalization and trims whitespace.
func NormalizeText(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.TrimSpace(normed)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
}

// NormalizeName turns a file reference into a comparable slash-separated name.
func NormalizeName(name string) string {
	name = NormalizeText(name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimPrefix(name, "./")
	return name
}

// BaseName returns the last element of a normalized file reference.
func BaseName(name string) string {
	name = NormalizeName(name)
	if name == "" {
		return ""
	}
	return path.Base(name)
}

// SameFile reports whether two file references point at the same raw file.
// Base names are compared only when one side is a bare name; two different
// paths never match, even when they end in the same file name.
func SameFile(a, b string) bool {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if strings.Contains(na, "/") && strings.Contains(nb, "/") {
		return false
	}
	return path.Base(na) == path.Base(nb)
}

// PlotFileName builds the PNG name for a file and model. Directories are kept
// in the name so files sharing a base name do not overwrite each other.
func PlotFileName(file, model string) string {
	name := NormalizeName(file)
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.Trim(fileNameReplacer.Replace(name), "_")
	if name == "" {
		name = "plot"
	}
	if model == "" {
		return name + ".png"
	}
	return name + "_" + model + ".png"
}

var fileNameReplacer = strings.NewReplacer("/", "_", ":", "", " ", "_")

// newTextReader strips a UTF-8 BOM and decodes UTF-16 input marked with a BOM.
func newTextReader(r io.Reader) io.Reader {
	return transform.NewReader(r, xunicode.BOMOverride(xunicode.UTF8.NewDecoder()))
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}
