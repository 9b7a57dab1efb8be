package scene

import (
	errs "github.com/matzehuels/canvasrender/pkg/errors"
)

// Validate checks the structural rules a scene must satisfy before layout.
// Rules that depend on measured content (such as text fitting) are checked
// by the renderer.
func (s *Scene) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return errs.New(errs.ErrCodeInvalidScene, "scene: width and height must be positive, got %gx%g", s.Width, s.Height)
	}
	if len(s.Layers) == 0 {
		return errs.New(errs.ErrCodeInvalidScene, "scene: layers must not be empty")
	}
	if s.Output != nil {
		if s.Output.Type != "" {
			if err := errs.ValidateFormat(s.Output.Type); err != nil {
				return err
			}
		}
		if s.Output.Quality != 0 {
			if err := errs.ValidateQuality(s.Output.Quality); err != nil {
				return err
			}
		}
	}
	return validateNodes(s.Layers)
}

func validateNodes(ns Nodes) error {
	for _, n := range ns {
		if err := ValidateNode(n); err != nil {
			return err
		}
	}
	return nil
}

// ValidateNode checks a single node and, for containers, its descendants.
func ValidateNode(n Node) error {
	if n == nil {
		return errs.New(errs.ErrCodeInvalidScene, "nil node")
	}
	b := n.Common()
	if b.Width != nil && *b.Width < 0 || b.Height != nil && *b.Height < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "%s: width and height must not be negative", b.Label())
	}
	switch n := n.(type) {
	case *Text:
		return validateText(n)
	case *Image:
		if n.URL == "" && (n.Width == nil || n.Height == nil) {
			return errs.New(errs.ErrCodeMissingField, "image %s: width and height are required without url", n.Label())
		}
		if n.ObjectFit != "" && n.ObjectFit != FitContain && n.ObjectFit != FitCover {
			return errs.New(errs.ErrCodeInvalidInput, "image %s: unknown objectFit %q", n.Label(), n.ObjectFit)
		}
	case *Shape:
		for i := range n.Commands {
			if !n.Commands[i].Type.Known() {
				return errs.New(errs.ErrCodeUnknownCommand, "shape %s: unknown command %q", n.Label(), n.Commands[i].Type)
			}
		}
	case *Container:
		if n.Width == nil || n.Height == nil {
			return errs.New(errs.ErrCodeMissingField, "container %s: width and height are required", n.Label())
		}
		switch n.Direction {
		case "", DirectionRow, DirectionColumn:
		default:
			return errs.New(errs.ErrCodeInvalidInput, "container %s: unknown direction %q", n.Label(), n.Direction)
		}
		return validateNodes(n.Layers)
	}
	return nil
}

func validateText(t *Text) error {
	fs := t.Style.FontSize
	if fs.Adaptive {
		if fs.Min <= 0 || fs.Max < fs.Min {
			return errs.New(errs.ErrCodeInvalidInput, "text %s: fontSize range must satisfy 0 < min <= max", t.Label())
		}
	} else if fs.Value <= 0 {
		return errs.New(errs.ErrCodeMissingField, "text %s: fontSize is required", t.Label())
	}
	if !t.Style.Align.Known() {
		return errs.New(errs.ErrCodeInvalidInput, "text %s: unknown align %q", t.Label(), t.Style.Align)
	}
	if !t.Style.VerticalAlign.Known() {
		return errs.New(errs.ErrCodeInvalidInput, "text %s: unknown verticalAlign %q", t.Label(), t.Style.VerticalAlign)
	}
	if h := t.Style.Highlight; h != nil {
		return h.Validate(t.Label())
	}
	return nil
}

// Validate checks that the highlight carries what its type needs.
func (h *Highlight) Validate(label string) error {
	switch h.Type {
	case HighlightUnderline, HighlightColor, HighlightBackground:
		if h.Color == "" {
			return errs.New(errs.ErrCodeInvalidHighlight, "text %s: %s highlight requires color", label, h.Type)
		}
	case HighlightImage:
		if h.Image == nil || h.Image.URL == "" {
			return errs.New(errs.ErrCodeInvalidHighlight, "text %s: image highlight requires image.url", label)
		}
		if !h.Image.CoverText && h.Image.Height <= 0 {
			return errs.New(errs.ErrCodeInvalidHighlight, "text %s: image highlight requires image.height", label)
		}
	default:
		return errs.New(errs.ErrCodeInvalidHighlight, "text %s: unknown highlight type %q", label, h.Type)
	}
	return nil
}
