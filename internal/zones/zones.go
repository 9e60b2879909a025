// Package zones maps upstream cluster ids to the display zone catalog.
// The ids are produced by an external clustering step; this package only
// names them.
package zones

import "sort"

const (
	// Fallback is the label for cluster ids outside the catalog.
	Fallback = "Altres"
	// Default is the label every row gets when the dataset has no cluster
	// column at all.
	Default = "General"
)

// catalog is the fixed cluster id -> zone name mapping.
var catalog = map[int]string{
	0: "Residencial / Zona alta",
	1: "Centre Neuràlgic",
	2: "Vida de Barri",
	3: "Perifèria / Zona Tranquila",
	4: "Zones d'Alta Saturació / Turisme",
}

// descriptions holds the legend text per zone name.
var descriptions = map[string]string{
	"Centre Neuràlgic":                 "Cor de la ciutat (Eixample). Màxim volum de viatges i connectivitat (PageRank).",
	"Perifèria / Zona Tranquila":       "Zones allunyades (Torre Baró, Vallbona). Volum molt baix però distàncies de viatge molt llargues.",
	"Zones d'Alta Saturació / Turisme": "Zones que reben una quantitat massiva de gent en proporció a la seva mida (Casc Antic, Barceloneta). Tenen la pressió més alta.",
	"Vida de Barri":                    "Barris densos amb molta activitat interna (Gràcia, Sants). Distàncies de viatge molt curtes (proximitat).",
	"Residencial / Zona alta":          "Barris tranquils i ben connectats (Sarrià). Sense saturació turística.",
}

// colors is the high-contrast palette keyed by zone name.
var colors = map[string]string{
	"Centre Neuràlgic":                 "#E63946",
	"Perifèria / Zona Tranquila":       "#2A9D8F",
	"Vida de Barri":                    "#F4A261",
	"Residencial / Zona alta":          "#457B9D",
	"Zones d'Alta Saturació / Turisme": "#9B5DE5",
	Default:                            "#CCCCCC",
	Fallback:                           "#CCCCCC",
}

// Name returns the zone name for a cluster id, or the fallback label for ids
// outside the catalog (including the -1 parse sentinel).
func Name(clusterID int) string {
	if name, ok := catalog[clusterID]; ok {
		return name
	}
	return Fallback
}

// Known reports whether the cluster id belongs to the catalog.
func Known(clusterID int) bool {
	_, ok := catalog[clusterID]
	return ok
}

// Color returns the display color for a zone name.
func Color(zoneName string) string {
	if c, ok := colors[zoneName]; ok {
		return c
	}
	return "#333333"
}

// Zone is one legend entry.
type Zone struct {
	ClusterID   int    `json:"cluster_kmeans"`
	Name        string `json:"nom_zona"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// All returns the catalog ordered by cluster id, for the legend sidebar.
func All() []Zone {
	ids := make([]int, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]Zone, 0, len(ids))
	for _, id := range ids {
		name := catalog[id]
		out = append(out, Zone{
			ClusterID:   id,
			Name:        name,
			Description: descriptions[name],
			Color:       colors[name],
		})
	}
	return out
}
