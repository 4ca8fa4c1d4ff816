package policy

import (
	"github.com/Faultbox/merged-lands/internal/landscape"
	"github.com/Faultbox/merged-lands/internal/merge"
)

// LayerPolicy is one layer's resolved inclusion/strategy pair.
type LayerPolicy struct {
	Included bool
	Strategy merge.Strategy
}

func defaultLayerPolicy() LayerPolicy {
	return LayerPolicy{Included: true, Strategy: merge.Auto}
}

// Resolver answers per-(plugin, layer) policy lookups. It implements
// merge.PolicyLookup.
type Resolver struct {
	perPlugin map[string]map[landscape.LayerName]LayerPolicy
}

// NewResolver returns an empty resolver; every plugin defaults to
// included=true, strategy=Auto until a descriptor is registered for it.
func NewResolver() *Resolver {
	return &Resolver{perPlugin: make(map[string]map[landscape.LayerName]LayerPolicy)}
}

// LayerPolicy implements merge.PolicyLookup.
func (r *Resolver) LayerPolicy(plugin string, layer landscape.LayerName) (bool, merge.Strategy) {
	layers, ok := r.perPlugin[plugin]
	if !ok {
		lp := defaultLayerPolicy()
		return lp.Included, lp.Strategy
	}
	lp, ok := layers[layer]
	if !ok {
		lp = defaultLayerPolicy()
	}
	return lp.Included, lp.Strategy
}

// RegisterDescriptor validates and registers raw JSON descriptor bytes
// for plugin. On validation failure it registers nothing (the plugin
// falls back to defaults) and returns the error; per spec.md section 7
// this is fatal for the descriptor only — callers should warn and
// continue processing the plugin with defaults, not abort the run.
func (r *Resolver) RegisterDescriptor(plugin string, raw []byte) error {
	rd, err := ValidateDescriptor(plugin, raw)
	if err != nil {
		return err
	}

	layers := make(map[landscape.LayerName]LayerPolicy)
	setIfPresent(layers, landscape.LayerHeight, rd.HeightMap)
	setIfPresent(layers, landscape.LayerColors, rd.VertexColors)
	setIfPresent(layers, landscape.LayerIndices, rd.TextureIndices)
	setIfPresent(layers, landscape.LayerWorldMap, rd.WorldMapData)
	r.perPlugin[plugin] = layers

	return nil
}

func setIfPresent(dst map[landscape.LayerName]LayerPolicy, name landscape.LayerName, raw *rawLayerPolicy) {
	lp := defaultLayerPolicy()
	if raw == nil {
		dst[name] = lp
		return
	}
	if raw.Included != nil {
		lp.Included = *raw.Included
	}
	if raw.ConflictStrategy != nil {
		lp.Strategy = merge.Strategy(*raw.ConflictStrategy)
	}
	dst[name] = lp
}
