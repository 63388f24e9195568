package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tushar-Jain07/portfolio/internal/config"
	"github.com/Tushar-Jain07/portfolio/internal/content"
	"github.com/Tushar-Jain07/portfolio/internal/scene"
	"github.com/Tushar-Jain07/portfolio/internal/session"
)

func newSceneCmd() *cobra.Command {
	var (
		frames int
		width  int
		height int
		text   string
	)
	cmd := &cobra.Command{
		Use:       "scene <kind>",
		Short:     "Render a scene headlessly and print the last frame as JSON",
		Args:      cobra.ExactArgs(1),
		ValidArgs: kindNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := session.ParseKind(args[0])
			if err != nil {
				return err
			}
			if frames < 1 {
				return fmt.Errorf("--frames must be at least 1")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			site, err := content.Load(cfg.ContentFile)
			if err != nil {
				return err
			}
			st, err := renderHeadless(site, cfg, session.MountRequest{
				Kind:     kind,
				Viewport: scene.Viewport{Width: width, Height: height, PixelRatio: 1},
				Text:     text,
			}, frames)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		},
	}
	cmd.Flags().IntVarP(&frames, "frames", "n", 60, "frames to step")
	cmd.Flags().IntVar(&width, "width", 1280, "viewport width")
	cmd.Flags().IntVar(&height, "height", 720, "viewport height")
	cmd.Flags().StringVar(&text, "text", "", "particle text override")
	return cmd
}

func kindNames() []string {
	kinds := scene.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

// renderHeadless steps a scene on a synthetic clock, one frame interval per
// tick, and returns the last frame.
func renderHeadless(site *content.Site, cfg config.Config, req session.MountRequest, frames int) (scene.FrameState, error) {
	factory, ok := session.DefaultFactories()[req.Kind]
	if !ok {
		return scene.FrameState{}, session.ErrUnknownKind
	}
	r, err := factory(site, req)
	if err != nil {
		return scene.FrameState{}, err
	}
	if err := r.Mount(req.Viewport); err != nil {
		return scene.FrameState{}, err
	}

	loop := scene.NewLoop(r, cfg.FrameInterval())
	defer loop.Stop()

	clock := time.Unix(0, 0)
	loop.SetClock(func() time.Time { return clock })

	var st scene.FrameState
	for i := 0; i < frames; i++ {
		st = loop.Tick()
		clock = clock.Add(cfg.FrameInterval())
	}
	return st, nil
}
