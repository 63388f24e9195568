package session

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Tushar-Jain07/portfolio/internal/content"
	"github.com/Tushar-Jain07/portfolio/internal/scene"
	"github.com/Tushar-Jain07/portfolio/internal/scene/backdrop"
	"github.com/Tushar-Jain07/portfolio/internal/scene/globe"
	"github.com/Tushar-Jain07/portfolio/internal/scene/particletext"
	"github.com/Tushar-Jain07/portfolio/internal/scene/showcase"
)

// Factory builds an unmounted renderer from the current site copy.
type Factory func(site *content.Site, req MountRequest) (scene.Renderer, error)

// DefaultFactories wires every decorative scene.
func DefaultFactories() map[scene.Kind]Factory {
	return map[scene.Kind]Factory{
		scene.KindParticleText: newParticleText,
		scene.KindGlobe:        newGlobe,
		scene.KindShowcase:     newShowcase,
		scene.KindBackdrop:     newBackdrop,
	}
}

func newParticleText(site *content.Site, req MountRequest) (scene.Renderer, error) {
	opts := particletext.DefaultOptions()
	opts.Text = site.HeroText
	if req.Text != "" {
		if utf8.RuneCountInString(req.Text) > content.MaxHeroText {
			return nil, fmt.Errorf("%w: text longer than %d characters", ErrBadRequest, content.MaxHeroText)
		}
		opts.Text = strings.ToUpper(req.Text)
	}
	return particletext.New(opts), nil
}

func newGlobe(site *content.Site, _ MountRequest) (scene.Renderer, error) {
	return globe.New(globe.DefaultOptions(site.Skills)), nil
}

func newShowcase(site *content.Site, _ MountRequest) (scene.Renderer, error) {
	items := make([]showcase.Item, len(site.Projects))
	for i, p := range site.Projects {
		items[i] = showcase.Item{Title: p.Title, Description: p.Description, URL: p.URL}
	}
	return showcase.New(showcase.Options{Items: items}), nil
}

func newBackdrop(_ *content.Site, _ MountRequest) (scene.Renderer, error) {
	return backdrop.New(backdrop.DefaultOptions()), nil
}
