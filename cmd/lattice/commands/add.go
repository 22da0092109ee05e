// ABOUTME: CLI commands to add entries from the terminal
// ABOUTME: Handles text, image files, and audio files with optional comments
package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessellate-systems/lattice/internal/core"
)

var (
	addCollection string
	addParentID   string
	addImagePath  string
	addAudioPath  string
)

// NewAddCmd creates the add command
func NewAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add an entry to a collection",
		Long: `Add an entry from text, a file, or stdin.

Text containing a YouTube or Spotify URL is recognized and stored with
its resolved title. Image and audio files are captioned or transcribed
before embedding.

Examples:
  lattice add "the map is not the territory"
  lattice add "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
  lattice add --collection reading "Finished Gödel, Escher, Bach"
  lattice add --parent 3f2a... "counterpoint: see chapter 4"
  lattice add --image photo.jpg
  lattice add --audio memo.mp3`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAdd,
	}

	cmd.Flags().StringVar(&addCollection, "collection", "", "Collection name (default: \"default\")")
	cmd.Flags().StringVar(&addParentID, "parent", "", "Attach as a comment on this entry ID")
	cmd.Flags().StringVar(&addImagePath, "image", "", "Ingest an image file")
	cmd.Flags().StringVar(&addAudioPath, "audio", "", "Ingest an audio file")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	req := core.IngestRequest{Collection: addCollection, ParentID: addParentID}
	ctx := cmd.Context()

	switch {
	case addImagePath != "":
		data, err := os.ReadFile(addImagePath)
		if err != nil {
			return fmt.Errorf("reading image: %w", err)
		}
		entry, err := a.pipeline.AddImage(ctx, data, filepath.Base(addImagePath), req)
		if err != nil {
			return fmt.Errorf("adding image: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added image %s\n  caption: %s\n", entry.ID, entry.Data)
		}
		return nil

	case addAudioPath != "":
		data, err := os.ReadFile(addAudioPath)
		if err != nil {
			return fmt.Errorf("reading audio: %w", err)
		}
		entry, err := a.pipeline.AddAudio(ctx, data, filepath.Base(addAudioPath), req)
		if err != nil {
			return fmt.Errorf("adding audio: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added audio %s\n  transcript: %s\n", entry.ID, entry.Data)
		}
		return nil
	}

	var text string
	if len(args) > 0 {
		text = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("no text provided")
	}

	entry, err := a.pipeline.AddText(ctx, text, req)
	if err != nil {
		return fmt.Errorf("adding entry: %w", err)
	}

	if !quiet {
		if entry.IsComment() {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added comment %s on %s\n", entry.ID, entry.ParentID)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s entry %s to %s\n", entry.Metadata.Type, entry.ID, entry.Collection)
		}
	}
	return nil
}
