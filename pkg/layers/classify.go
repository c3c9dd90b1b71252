package layers

import (
	"regexp"

	"github.com/beevik/etree"
	"github.com/charmbracelet/log"

	"github.com/barnhunt/barnhunt/pkg/errors"
	"github.com/barnhunt/barnhunt/pkg/svg"
)

// Info is the classification of one layer.
type Info struct {
	Flags Flags
	// Label is the display label with any explicit tag removed.
	Label string
	// OutputBasename names the output file for maps selecting this layer.
	// Empty when the layer does not set one.
	OutputBasename string
}

// IsHidden reports whether the layer is never displayed.
func (i Info) IsHidden() bool { return i.Flags.Has(Hidden) }

// IsOverlay reports whether the layer is an overlay choice.
func (i Info) IsOverlay() bool { return i.Flags.Has(Overlay) }

// Convention identifies a labeling convention.
type Convention int

const (
	// Legacy infers layer roles from label keywords.
	Legacy Convention = iota
	// Explicit reads layer roles from bracketed label tags.
	Explicit
)

func (c Convention) String() string {
	if c == Explicit {
		return "explicit"
	}
	return "legacy"
}

var (
	tagRe = regexp.MustCompile(`^\[(?P<flags>\w+)(?:\|+(?P<basename>\w[-\w\d]*))?\]\s*`)

	ringRe   = regexp.MustCompile(`(?i)\bring\b`)
	courseRe = regexp.MustCompile(`(?i)\b(instinct|novice|open|senior|master|crazy ?8s?|c8)\b`)
)

// OverlaysLabel is the legacy label of the layer grouping overlay choices.
const OverlaysLabel = "Overlays"

// ParseLabel splits an explicitly tagged label into its parts. ok is false
// when the label carries no tag; rest is then the whole label.
func ParseLabel(label string) (flags, basename, rest string, ok bool) {
	m := tagRe.FindStringSubmatchIndex(label)
	if m == nil {
		return "", "", label, false
	}
	flags = label[m[2]:m[3]]
	if m[4] >= 0 {
		basename = label[m[4]:m[5]]
	}
	return flags, basename, label[m[1]:], true
}

// Classifier classifies layers under one convention.
type Classifier struct {
	Convention Convention
	logger     *log.Logger
}

// NewClassifier returns a classifier for convention. A nil logger uses
// log.Default().
func NewClassifier(convention Convention, logger *log.Logger) *Classifier {
	if logger == nil {
		logger = log.Default()
	}
	return &Classifier{Convention: convention, logger: logger}
}

// Classify derives the Info of layer.
func (c *Classifier) Classify(layer *etree.Element) Info {
	if c.Convention == Explicit {
		return c.classifyExplicit(layer)
	}
	return classifyLegacy(layer)
}

func (c *Classifier) classifyExplicit(layer *etree.Element) Info {
	label := svg.LayerLabel(layer)
	tag, basename, rest, ok := ParseLabel(label)
	if !ok {
		return Info{Label: label}
	}
	flags, unknown := ParseFlags(tag)
	for _, ch := range unknown {
		c.logger.Warn("unknown character in layer flags", "char", string(ch), "flags", tag, "layer", svg.LayerID(layer))
	}
	return Info{Flags: flags, Label: rest, OutputBasename: basename}
}

func classifyLegacy(layer *etree.Element) Info {
	info := Info{Label: svg.LayerLabel(layer)}
	switch {
	case isCruft(layer):
		info.Flags = Hidden
	case isCourse(layer), isLegacyOverlay(layer):
		info.Flags = Overlay
	}
	return info
}

func isTopLevel(layer *etree.Element) bool {
	return svg.IsLayer(layer) && svg.ParentLayer(layer) == nil
}

func isRing(layer *etree.Element) bool {
	return isTopLevel(layer) && ringRe.MatchString(svg.LayerLabel(layer))
}

func isCourse(layer *etree.Element) bool {
	return isTopLevel(layer) && !isRing(layer) && courseRe.MatchString(svg.LayerLabel(layer))
}

func isCruft(layer *etree.Element) bool {
	return isTopLevel(layer) && !isRing(layer) && !isCourse(layer)
}

func isLegacyOverlay(layer *etree.Element) bool {
	if !svg.IsLayer(layer) {
		return false
	}
	parent := svg.ParentLayer(layer)
	if parent == nil || svg.LayerLabel(parent) != OverlaysLabel {
		return false
	}
	for _, l := range svg.Lineage(parent) {
		if isCourse(l) {
			return true
		}
	}
	return false
}

// Detect scans the layers below root and returns a classifier for the
// document's convention. Any explicitly tagged label selects the explicit
// convention. A legacy document with layers must have exactly one ring.
func Detect(root *etree.Element, logger *log.Logger) (*Classifier, error) {
	var (
		count int
		rings int
	)
	for layer := range svg.WalkLayers(root) {
		if _, _, _, ok := ParseLabel(svg.LayerLabel(layer)); ok {
			return NewClassifier(Explicit, logger), nil
		}
		count++
		if isRing(layer) {
			rings++
		}
	}
	if count > 0 && rings != 1 {
		return nil, errors.New(errors.ErrCodeInvalidDocument,
			"expected exactly one top-level ring layer, found %d", rings)
	}
	return NewClassifier(Legacy, logger), nil
}
