package feed

import "strings"

// Column names of the content export.
const (
	FieldTitle       = "Título"
	FieldName        = "Nombre"
	FieldSlug        = "Slug"
	FieldDate        = "Fecha"
	FieldUpdated     = "Actualizado"
	FieldSummary     = "Bajada"
	FieldOriginal    = "Original"
	FieldContenido   = "Contenido"
	FieldContent     = "Content"
	FieldMeta        = "Meta"
	FieldChapter     = "Capítulo"
	FieldBook        = "Libro"
	FieldCover       = "Portada"
	FieldSocialShare = "Social Share"
	FieldPodcast     = "Podcast"
	FieldStatus      = "Estado"
	FieldDraft       = ":draft"
)

const (
	DefaultTitle       = "Sin título"
	DefaultDescription = "Sin descripción"
)

var (
	titleFields   = []string{FieldTitle, FieldName}
	dateFields    = []string{FieldDate, FieldUpdated}
	contentFields = []string{FieldOriginal, FieldContenido, FieldContent}
	imageFields   = []string{FieldCover, FieldSocialShare}
)

var draftStatuses = map[string]bool{
	"draft":    true,
	"borrador": true,
	"true":     true,
	"1":        true,
}

// firstValue returns the first value among keys that is non-empty after
// trimming, or def. The returned value is not trimmed.
func firstValue(row Row, keys []string, def string) string {
	for _, k := range keys {
		if v, ok := row[k]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return def
}

func value(row Row, key string) string {
	return firstValue(row, []string{key}, "")
}
