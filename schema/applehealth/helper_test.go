package applehealth

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustElement(t *testing.T, doc string) *Element {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		tok, err := dec.Token()
		require.NoError(t, err)
		if start, ok := tok.(xml.StartElement); ok {
			e, err := NewArena().Build(dec, start)
			require.NoError(t, err)
			return e
		}
	}
}
