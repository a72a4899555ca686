package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/krishisetu/krishi-cli/internal/advisor"
	"github.com/krishisetu/krishi-cli/pkg/anthropic"
)

var (
	askLat   float64
	askLon   float64
	askLang  string
	askImage string
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the advisor a one-shot question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("ask"); err != nil {
			return err
		}
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		svc, _ := initAdvisor(st)

		lang := askLang
		if lang == "" {
			lang = cfg.Advisor.DefaultLanguage
		}
		q := advisor.Query{
			Message:  strings.Join(args, " "),
			Language: lang,
		}
		if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
			q.Location = &advisor.Location{Lat: askLat, Lon: askLon}
		}
		if askImage != "" {
			img, err := loadImage(askImage)
			if err != nil {
				return err
			}
			q.Image = img
		}

		ans, err := svc.Answer(ctx, q)
		if err != nil {
			return err
		}

		fmt.Println(ans.Text)
		return nil
	},
}

// loadImage reads a local image file into an inline base64 attachment.
func loadImage(path string) (*anthropic.ImageData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read image %s", path)
	}
	mt := "image/jpeg"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		mt = "image/png"
	case ".gif":
		mt = "image/gif"
	case ".webp":
		mt = "image/webp"
	}
	return &anthropic.ImageData{
		MediaType: mt,
		Data:      base64.StdEncoding.EncodeToString(data),
	}, nil
}

func init() {
	askCmd.Flags().Float64Var(&askLat, "lat", 0, "latitude for weather context")
	askCmd.Flags().Float64Var(&askLon, "lon", 0, "longitude for weather context")
	askCmd.Flags().StringVar(&askLang, "lang", "", "answer language (en, hi, ml)")
	askCmd.Flags().StringVar(&askImage, "image", "", "path to an image to attach")
	rootCmd.AddCommand(askCmd)
}
