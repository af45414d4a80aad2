// assets/embed.go
//
// Embedded default dictionary. The file is line-delimited lowercase words;
// blank lines and lines starting with '#' are ignored by the loader.
package assets

import (
	"embed"
	"io"
)

//go:embed words.txt
var FS embed.FS

// DictionaryName is the embedded dictionary file.
const DictionaryName = "words.txt"

// Dictionary opens the embedded dictionary for reading.
func Dictionary() (io.ReadCloser, error) {
	return FS.Open(DictionaryName)
}
