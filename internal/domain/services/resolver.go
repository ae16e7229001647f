// Package services contains domain business logic.
package services

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
	"github.com/danielgonzalesarce/holocron/internal/domain/ports"
)

// DefaultProbeTimeout bounds the wait for a single reachability probe.
const DefaultProbeTimeout = 3 * time.Second

// PlaceholderNameLength is the number of name characters encoded into a placeholder URL.
const PlaceholderNameLength = 20

// Template placeholders substituted into candidate URL templates.
const (
	idToken   = "{id}"
	slugToken = "{slug}"
)

// ImageSources configures the candidate URLs tried by ImageResolver.
type ImageSources struct {
	// Known maps entity names to known-good image URLs.
	Known map[string]string
	// IDTemplates are tried in order when an identifier is available.
	// They may reference {id} and {slug}.
	IDTemplates []string
	// NeighborTemplate is tried with id, id+1 and id-1.
	NeighborTemplate string
	// SlugTemplates are tried with the collapsed name slug.
	SlugTemplates []string
	// Placeholder is the base URL of the placeholder image service; the name
	// is appended as the "text" query parameter.
	Placeholder string
}

// DefaultImageSources returns the candidate sources used when nothing is configured.
func DefaultImageSources() ImageSources {
	const guide = "https://starwars-visualguide.com/assets/img/characters/"
	const cdn = "https://cdn.jsdelivr.net/npm/starwars-visualguide/assets/img/characters/"
	return ImageSources{
		Known: map[string]string{},
		IDTemplates: []string{
			guide + "{id}.jpg",
			guide + "{id}.png",
			cdn + "{id}.jpg",
			"https://images.starwars.com/characters/{id}.jpg",
			guide + "{slug}.jpg",
		},
		NeighborTemplate: guide + "{id}.jpg",
		SlugTemplates: []string{
			guide + "{slug}.jpg",
			guide + "{slug}.png",
			"https://images.starwars.com/characters/{slug}.jpg",
			cdn + "{slug}.jpg",
		},
		Placeholder: "https://via.placeholder.com/400x600/667eea/ffffff",
	}
}

// ImageStrategy produces a candidate image URL for an entity, or false when it has none.
type ImageStrategy func(ctx context.Context, entity entities.Entity) (string, bool)

type namedStrategy struct {
	name  string
	needs func(entities.Entity) bool
	try   func(ctx context.Context, r *resolution) (string, bool)
}

// resolution carries per-entity state through the strategy chain.
type resolution struct {
	entity entities.Entity
	probed map[string]bool
}

// ImageResolver finds a working image URL for an entity by walking an ordered
// chain of strategies. It never fails; the last strategy is a placeholder.
type ImageResolver struct {
	sources      ImageSources
	metadata     ports.MetadataClient
	prober       ports.Prober
	probeTimeout time.Duration
	logger       *zap.Logger
	chain        []namedStrategy
}

// ResolverOption configures an ImageResolver.
type ResolverOption func(*ImageResolver)

// WithProbeTimeout overrides DefaultProbeTimeout.
func WithProbeTimeout(d time.Duration) ResolverOption {
	return func(r *ImageResolver) {
		if d > 0 {
			r.probeTimeout = d
		}
	}
}

// WithResolverLogger sets the logger used for strategy tracing.
func WithResolverLogger(logger *zap.Logger) ResolverOption {
	return func(r *ImageResolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewImageResolver creates a resolver. metadata may be nil to skip the metadata lookup.
func NewImageResolver(sources ImageSources, metadata ports.MetadataClient, prober ports.Prober, opts ...ResolverOption) *ImageResolver {
	known := make(map[string]string, len(sources.Known))
	for name, u := range sources.Known {
		known[name] = u
	}
	sources.Known = known

	r := &ImageResolver{
		sources:      sources,
		metadata:     metadata,
		prober:       prober,
		probeTimeout: DefaultProbeTimeout,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	always := func(entities.Entity) bool { return true }
	withID := entities.Entity.HasIdentifier
	r.chain = []namedStrategy{
		{name: "known-name", needs: always, try: r.tryKnownName},
		{name: "metadata", needs: withID, try: r.tryMetadata},
		{name: "id-patterns", needs: withID, try: r.tryIDPatterns},
		{name: "neighbor-ids", needs: withID, try: r.tryNeighborIDs},
		{name: "name-slug", needs: always, try: r.tryNameSlug},
	}
	return r
}

// NamedStrategy pairs a chain step with its name.
type NamedStrategy struct {
	Name string
	Try  ImageStrategy
}

// Strategies exposes each chain step as a standalone ImageStrategy, in priority order.
// The placeholder step is not included because it always succeeds.
func (r *ImageResolver) Strategies() []NamedStrategy {
	out := make([]NamedStrategy, 0, len(r.chain))
	for _, s := range r.chain {
		out = append(out, NamedStrategy{
			Name: s.name,
			Try: func(ctx context.Context, e entities.Entity) (string, bool) {
				if !s.needs(e) {
					return "", false
				}
				return s.try(ctx, &resolution{entity: e, probed: make(map[string]bool)})
			},
		})
	}
	return out
}

// Resolve returns the first reachable candidate, or a placeholder URL.
func (r *ImageResolver) Resolve(ctx context.Context, entity entities.Entity) string {
	res := &resolution{entity: entity, probed: make(map[string]bool)}

	for _, s := range r.chain {
		if !s.needs(entity) {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		if u, ok := s.try(ctx, res); ok {
			r.logger.Debug("image resolved",
				zap.String("name", entity.Name),
				zap.String("strategy", s.name),
				zap.String("url", u))
			return u
		}
	}

	u := Placeholder(r.sources.Placeholder, entity.Name)
	r.logger.Debug("image placeholder",
		zap.String("name", entity.Name),
		zap.Int("probes", len(res.probed)))
	return u
}

func (r *ImageResolver) tryKnownName(ctx context.Context, res *resolution) (string, bool) {
	u, ok := r.sources.Known[res.entity.Name]
	if !ok {
		return "", false
	}
	return r.first(ctx, res, []string{u})
}

func (r *ImageResolver) tryMetadata(ctx context.Context, res *resolution) (string, bool) {
	if r.metadata == nil {
		return "", false
	}
	u, err := r.metadata.ImageFor(ctx, res.entity.Identifier)
	if err != nil {
		r.logger.Debug("metadata lookup failed",
			zap.Int("id", res.entity.Identifier),
			zap.Error(err))
		return "", false
	}
	if u == "" {
		return "", false
	}
	return r.first(ctx, res, []string{u})
}

func (r *ImageResolver) tryIDPatterns(ctx context.Context, res *resolution) (string, bool) {
	slug := Slug(res.entity.Name, false)
	candidates := make([]string, 0, len(r.sources.IDTemplates))
	for _, tmpl := range r.sources.IDTemplates {
		candidates = append(candidates, expand(tmpl, res.entity.Identifier, slug))
	}
	return r.first(ctx, res, candidates)
}

func (r *ImageResolver) tryNeighborIDs(ctx context.Context, res *resolution) (string, bool) {
	if r.sources.NeighborTemplate == "" {
		return "", false
	}
	id := res.entity.Identifier
	var candidates []string
	for _, n := range []int{id, id + 1, id - 1} {
		if n > 0 {
			candidates = append(candidates, expand(r.sources.NeighborTemplate, n, ""))
		}
	}
	return r.first(ctx, res, candidates)
}

func (r *ImageResolver) tryNameSlug(ctx context.Context, res *resolution) (string, bool) {
	slug := Slug(res.entity.Name, true)
	if slug == "" {
		return "", false
	}
	candidates := make([]string, 0, len(r.sources.SlugTemplates))
	for _, tmpl := range r.sources.SlugTemplates {
		candidates = append(candidates, expand(tmpl, 0, slug))
	}
	return r.first(ctx, res, candidates)
}

// first returns the first reachable candidate. A URL already probed during
// this resolution reuses the earlier outcome.
func (r *ImageResolver) first(ctx context.Context, res *resolution, candidates []string) (string, bool) {
	for _, u := range candidates {
		ok, seen := res.probed[u]
		if !seen {
			ok = r.reachable(ctx, u)
			res.probed[u] = ok
		}
		if ok {
			return u, true
		}
	}
	return "", false
}

// reachable races the probe against the probe timeout. Whichever finishes first
// wins; a late probe result is dropped. The probe itself is not cancelled.
func (r *ImageResolver) reachable(ctx context.Context, u string) bool {
	done := make(chan bool, 1)
	go func() {
		done <- r.prober.Probe(ctx, u)
	}()

	timer := time.NewTimer(r.probeTimeout)
	defer timer.Stop()

	select {
	case ok := <-done:
		return ok
	case <-timer.C:
		r.logger.Debug("probe timed out", zap.String("url", u))
		return false
	case <-ctx.Done():
		return false
	}
}

func expand(tmpl string, id int, slug string) string {
	out := tmpl
	if id > 0 {
		out = strings.ReplaceAll(out, idToken, strconv.Itoa(id))
	}
	return strings.ReplaceAll(out, slugToken, slug)
}

// Placeholder builds the terminal fallback URL: base plus the first
// PlaceholderNameLength characters of name, URL-encoded.
func Placeholder(base, name string) string {
	text := []rune(name)
	if len(text) > PlaceholderNameLength {
		text = text[:PlaceholderNameLength]
	}
	return base + "?text=" + encodeURIComponent(string(text))
}

// uriUnreserved restores the marks encodeURIComponent leaves unescaped.
var uriUnreserved = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent escapes s for use as a query value, with spaces as %20
// and the marks ! ' ( ) * left as-is.
func encodeURIComponent(s string) string {
	return uriUnreserved.Replace(url.QueryEscape(s))
}
