package session

import (
	"context"
	"time"

	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/types"
	"github.com/moby/buildkit/client"
	"github.com/pkg/errors"

	"github.com/peelbox/peelbox/pkg/cacheindex"
	"github.com/peelbox/peelbox/pkg/perr"
	"github.com/peelbox/peelbox/pkg/universalbuild"
)

// exportTimeout bounds the final tar export (spec.md §5: "hard
// timeout on the final export (default 5 minutes)").
const exportTimeout = 5 * time.Minute

// Options configures one Build call beyond the UniversalBuild itself.
type Options struct {
	Tag             string
	ContextPath     string
	ContextExcludes []string // .gitignore-style lines, see FileSyncAttachable
	Output          Output
	CacheImports    []client.CacheOptionsEntry
	CacheExports    []client.CacheOptionsEntry
	CacheDir        string // PEELBOX_CACHE_DIR; empty disables the cache index
	AppName         string // for cacheindex.CacheKey; falls back to spec path
	// SBOM and Provenance request the attestations session.rs's build()
	// attached as exporter attrs (attest:sbom, attest:provenance,
	// build-arg:BUILDKIT_SBOM_SCAN_CONTEXT). Provenance is "min", "max",
	// or "" (no attestation, the default); SBOM is opt-in.
	SBOM       bool
	Provenance string
	Progress   func(Update)
	// Warn receives human-readable warnings for non-fatal conditions,
	// the same callback shape pkg/pipeline.Options uses — a
	// perr.CachePersistError never fails Build, it only gets reported
	// here (spec.md §7).
	Warn func(string)
}

// Result is the outcome of a successful build, mirroring session.rs's
// BuildResult.
type Result struct {
	ImageDigest  string
	BytesWritten uint64
}

// Build drives one UniversalBuild through the Session Attach (B3),
// Multiplexed Server (B4), LLB solve with concurrent Progress Stream
// (B5), and Cache Index (B6) — the full Build Session (spec.md §4.B1-
// B6) for a single service, using an already-dialed Connection (B1).
func Build(ctx context.Context, conn *Connection, ub universalbuild.UniversalBuild, opts Options) (Result, error) {
	warn := opts.Warn
	if warn == nil {
		warn = func(string) {}
	}

	attach := NewAttach()

	fileSend := NewFileSend()
	sink, err := opts.Output.sink(ctx)
	if err != nil {
		return Result{}, err
	}
	attach.Register(FileSyncAttachable(opts.ContextPath, opts.ContextExcludes))
	attach.Register(fileSend.Attachable(sink))
	attach.Register(AuthAttachable())

	def, err := Encode(ctx, ub, attach.ID())
	if err != nil {
		return Result{}, errors.Wrap(err, "encoding LLB")
	}

	cacheImports := opts.CacheImports
	if opts.CacheDir != "" {
		cacheImports = resolveCacheImports(opts, cacheImports)
	}

	solveOpt := client.SolveOpt{
		Exports: []client.ExportEntry{
			{Type: opts.Output.ExporterType(), Attrs: exportAttrs(opts)},
		},
		Session:      attach.Attachables(),
		SharedKey:    attach.ID(),
		CacheImports: cacheImports,
		CacheExports: opts.CacheExports,
	}

	statusCh := make(chan *client.SolveStatus, statusChanCapacity)
	progress := NewProgressStream(ctx, statusCh)
	if opts.Progress != nil {
		go func() {
			for u := range progress.Updates() {
				opts.Progress(u)
			}
		}()
	}

	attach.MarkDialing()
	attach.MarkServing()

	resp, err := conn.Client().Solve(ctx, def, solveOpt, statusCh)

	attach.MarkDraining()
	attach.MarkClosed()

	if err != nil {
		attach.MarkFailed()
		return Result{}, perr.SolveFailed{BuilderMessage: err.Error()}
	}

	if err := waitForExport(ctx, fileSend); err != nil {
		return Result{}, err
	}

	if opts.CacheDir != "" {
		if err := persistCacheIndex(opts, resp); err != nil {
			warn(err.Error())
		}
	}

	return Result{
		ImageDigest:  resp.ExporterResponse["containerimage.digest"],
		BytesWritten: fileSend.BytesWritten(),
	}, nil
}

// waitForExport blocks until FileSend's one-shot completion signal
// fires or exportTimeout elapses (spec.md §4.B4/§5).
func waitForExport(ctx context.Context, fs *FileSend) error {
	select {
	case <-fs.Done():
		return nil
	case <-time.After(exportTimeout):
		return perr.ExportTimeout{BudgetSeconds: int(exportTimeout.Seconds())}
	case <-ctx.Done():
		return perr.ExportTimeout{BudgetSeconds: int(exportTimeout.Seconds())}
	}
}

// resolveCacheImports auto-resolves a missing cache-import digest
// from the per-app index when the caller passed none explicitly
// (spec.md §4.B6: "cache-import flags auto-resolve digest from the
// per-app index when absent").
func resolveCacheImports(opts Options, explicit []client.CacheOptionsEntry) []client.CacheOptionsEntry {
	if len(explicit) > 0 {
		return explicit
	}
	key := cacheindex.CacheKey(opts.ContextPath, appNameOrFallback(opts))
	index, err := cacheindex.ReadWithKey(opts.CacheDir, key)
	if err != nil {
		return explicit
	}
	digest, ok := cacheindex.GetDigest(index, "")
	if !ok {
		return explicit
	}
	return []client.CacheOptionsEntry{{Type: "registry", Attrs: map[string]string{"ref": digest}}}
}

// persistCacheIndex writes the resolved image digest back into the
// per-app cache index so a later build's resolveCacheImports can find
// it (spec.md §4.B6's "on build start the cache key is materialized").
func persistCacheIndex(opts Options, resp *client.SolveResponse) error {
	digest := resp.ExporterResponse["containerimage.digest"]
	if digest == "" {
		return nil
	}
	if err := cacheindex.EnsureLayout(opts.CacheDir); err != nil {
		return perr.CachePersistError{Path: opts.CacheDir, Cause: err}
	}
	key := cacheindex.CacheKey(opts.ContextPath, appNameOrFallback(opts))
	hash, err := v1.NewHash(digest)
	if err != nil {
		return perr.CachePersistError{Path: opts.CacheDir, Cause: err}
	}
	desc := cacheindex.NewDescriptor(types.OCIManifestSchema1, hash, 0, "")
	return cacheindex.Write(opts.CacheDir, key, []v1.Descriptor{desc})
}

// exportAttrs builds the exporter attrs map, folding in the SBOM and
// provenance attestation requests session.rs attached the same way
// (attest:sbom, attest:provenance, build-arg:BUILDKIT_SBOM_SCAN_CONTEXT).
func exportAttrs(opts Options) map[string]string {
	attrs := map[string]string{"name": opts.Tag}
	if opts.SBOM {
		attrs["attest:sbom"] = "true"
		attrs["build-arg:BUILDKIT_SBOM_SCAN_CONTEXT"] = "true"
	}
	if opts.Provenance != "" {
		attrs["attest:provenance"] = "mode=" + opts.Provenance
	}
	return attrs
}

func appNameOrFallback(opts Options) string {
	if opts.AppName != "" {
		return opts.AppName
	}
	return opts.ContextPath
}
