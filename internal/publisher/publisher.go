// Package publisher writes generated documents to scratch and uploads them to
// the remote output folder as Markdown and HTML.
package publisher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"vidnotes/internal/fileutil"
	"vidnotes/internal/logging"
	"vidnotes/internal/remote"
	"vidnotes/internal/render"
	"vidnotes/internal/textutil"
)

// Kind identifies an artifact format.
type Kind string

const (
	KindMarkdown Kind = "markdown"
	KindHTML     Kind = "html"
)

func (k Kind) extension() string {
	if k == KindHTML {
		return ".html"
	}
	return ".md"
}

// Artifact is one published file.
type Artifact struct {
	Kind       Kind
	Content    string
	LocalPath  string
	RemotePath string
}

// ArtifactResult pairs an artifact with its upload error, if any.
type ArtifactResult struct {
	Artifact Artifact
	Err      error
}

// OK reports whether the artifact reached the remote store.
func (r ArtifactResult) OK() bool { return r.Err == nil }

// Outcome holds the Markdown (primary) and HTML (secondary) results.
type Outcome struct {
	Primary   ArtifactResult
	Secondary ArtifactResult
}

// OK reports whether both artifacts were uploaded.
func (o Outcome) OK() bool { return o.Primary.OK() && o.Secondary.OK() }

// Err joins the artifact errors.
func (o Outcome) Err() error { return errors.Join(o.Primary.Err, o.Secondary.Err) }

// Publisher uploads artifacts into outputDir.
type Publisher struct {
	store      remote.Store
	outputDir  string
	scratchDir string
	logger     *slog.Logger
}

// New constructs a Publisher.
func New(store remote.Store, outputDir, scratchDir string, logger *slog.Logger) *Publisher {
	return &Publisher{
		store:      store,
		outputDir:  outputDir,
		scratchDir: scratchDir,
		logger:     logging.NewComponentLogger(logger, "publisher"),
	}
}

// ScratchPaths returns the local Markdown and HTML paths used for entry.
func (p *Publisher) ScratchPaths(entry remote.Entry) []string {
	return []string{p.localPath(entry, KindMarkdown), p.localPath(entry, KindHTML)}
}

// Publish writes text as Markdown, renders HTML from it and uploads both. Both
// uploads are attempted even if the first fails.
func (p *Publisher) Publish(ctx context.Context, entry remote.Entry, text string) Outcome {
	logger := logging.WithContext(ctx, p.logger)

	md := p.artifact(entry, KindMarkdown, text)
	outcome := Outcome{Primary: ArtifactResult{Artifact: md, Err: p.upload(ctx, md)}}

	title := render.Title(entry.BaseName())
	page, err := render.HTML(text, title)
	htmlArtifact := p.artifact(entry, KindHTML, page)
	if err != nil {
		outcome.Secondary = ArtifactResult{Artifact: htmlArtifact, Err: err}
	} else {
		outcome.Secondary = ArtifactResult{Artifact: htmlArtifact, Err: p.upload(ctx, htmlArtifact)}
	}

	for _, result := range []ArtifactResult{outcome.Primary, outcome.Secondary} {
		if result.Err != nil {
			logging.WarnWithContext(logger, "artifact upload failed", "artifact_upload_failed",
				logging.String("kind", string(result.Artifact.Kind)),
				logging.String("remote_path", result.Artifact.RemotePath),
				logging.Error(result.Err),
				logging.String(logging.FieldErrorHint, "check remote credentials and output_dir"),
				logging.String(logging.FieldImpact, "candidate stays unprocessed and is retried next run"),
			)
			continue
		}
		logger.Info("artifact uploaded",
			logging.String("kind", string(result.Artifact.Kind)),
			logging.String("remote_path", result.Artifact.RemotePath),
			logging.Int("bytes", len(result.Artifact.Content)),
			logging.String(logging.FieldEventType, "artifact_uploaded"),
		)
	}
	return outcome
}

func (p *Publisher) artifact(entry remote.Entry, kind Kind, content string) Artifact {
	return Artifact{
		Kind:       kind,
		Content:    content,
		LocalPath:  p.localPath(entry, kind),
		RemotePath: remote.Join(p.outputDir, entry.BaseName()+kind.extension()),
	}
}

func (p *Publisher) localPath(entry remote.Entry, kind Kind) string {
	base := textutil.SanitizeFileName(entry.BaseName())
	if base == "" {
		base = "document"
	}
	return filepath.Join(p.scratchDir, base+kind.extension())
}

func (p *Publisher) upload(ctx context.Context, artifact Artifact) error {
	data := []byte(artifact.Content)
	if err := fileutil.WriteAtomic(artifact.LocalPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", artifact.LocalPath, err)
	}
	if err := p.store.Upload(ctx, bytes.NewReader(data), artifact.RemotePath, true); err != nil {
		return fmt.Errorf("upload %s: %w", artifact.RemotePath, err)
	}
	return nil
}
