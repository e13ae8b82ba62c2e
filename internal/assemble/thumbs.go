package assemble

import (
	"context"
	"os"
	"path/filepath"

	"mappack/internal/identity"
	"mappack/internal/services"
	"mappack/internal/services/vtex"
	"mappack/internal/workshop"
)

// ThumbnailStager produces one compiled thumbnail per asset in destDir.
// Image decode, resize, and texture compilation happen outside the core
// pipeline; this interface is their only contract with it.
type ThumbnailStager interface {
	Stage(ctx context.Context, record identity.AssetRecord, destDir string) (string, error)
}

// PipelineStager is the default ThumbnailStager: it downloads the asset's
// preview image and hands it to the external texture compiler.
type PipelineStager struct {
	downloader workshop.ContainerFetcher
	compiler   *vtex.Client
	scratchDir string
}

// NewPipelineStager builds the default thumbnail pipeline.
func NewPipelineStager(downloader workshop.ContainerFetcher, compiler *vtex.Client, scratchDir string) *PipelineStager {
	return &PipelineStager{downloader: downloader, compiler: compiler, scratchDir: scratchDir}
}

// Stage fetches and compiles one thumbnail, returning the produced path.
func (p *PipelineStager) Stage(ctx context.Context, record identity.AssetRecord, destDir string) (string, error) {
	if record.ThumbnailRef == "" {
		return "", services.Wrap(services.ErrNotFound, "thumbnails", "stage",
			record.ExternalID+": no preview image", nil)
	}

	scratch, err := os.MkdirTemp(p.scratchDir, "thumb-"+record.ExternalID+"-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(scratch)

	imagePath := filepath.Join(scratch, record.InternalName+".jpg")
	if err := p.downloader.Download(ctx, record.ThumbnailRef, imagePath); err != nil {
		return "", err
	}
	return p.compiler.Compile(ctx, imagePath, destDir)
}
