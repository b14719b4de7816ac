// Package source identifies the data behind a query: a remote JSON/CSV
// endpoint or an in-memory static dataset.
package source

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Genty83/SimplifyTable/pkg/tabular"
)

// Kind tags the source variant.
type Kind string

const (
	// KindRemote sources are fetched over HTTP and cached by URL.
	KindRemote Kind = "remote"

	// KindStatic sources already reside in memory and are never cached.
	KindStatic Kind = "static"
)

// Source is a tagged variant over the two data shapes. The zero value is not
// usable; build sources with Remote or Static.
type Source struct {
	kind    Kind
	url     string
	dataset *tabular.Dataset
	id      string
}

// Remote binds a source to an HTTP endpoint. The URL doubles as the source
// key.
func Remote(url string) Source {
	return Source{kind: KindRemote, url: url}
}

// Static binds a source to an in-memory dataset. Every binding gets its own
// identity, so two bindings over equal data still have distinct keys.
func Static(dataset *tabular.Dataset) Source {
	return Source{kind: KindStatic, dataset: dataset, id: uuid.NewString()}
}

// Kind returns the variant tag.
func (s Source) Kind() Kind {
	return s.kind
}

// URL returns the endpoint of a remote source, "" otherwise.
func (s Source) URL() string {
	return s.url
}

// Dataset returns the bound dataset of a static source, nil otherwise.
func (s Source) Dataset() *tabular.Dataset {
	return s.dataset
}

// Key returns the stable identity used to index the source cache and to tag
// diagnostics: the URL for remote sources, a per-binding id for static ones.
func (s Source) Key() string {
	if s.kind == KindStatic {
		return fmt.Sprintf("static:%s", s.id)
	}
	return s.url
}
