package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/peelbox/peelbox/pkg/cacheopt"
	"github.com/peelbox/peelbox/pkg/config"
	"github.com/peelbox/peelbox/pkg/perr"
	"github.com/peelbox/peelbox/pkg/session"
	"github.com/peelbox/peelbox/pkg/universalbuild"
)

// defaultBuilderAddr matches buildctl's own default, since peelbox
// talks to the same daemon.
const defaultBuilderAddr = "unix:///run/buildkit/buildkitd.sock"

// NewBuildCmd builds the "build" command (spec.md §6): drives a single
// UniversalBuild through the Build Session (B1-B6) against an already
// running builder daemon.
func NewBuildCmd() *cobra.Command {
	var (
		specPath    string
		tag         string
		serviceName string
		contextPath string
		outputRaw   string
		cacheFrom   []string
		cacheTo     []string
		builderAddr string
		sbom        bool
		provenance  string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build one service's UniversalBuild spec into a container image",
		RunE: func(cmd *cobra.Command, args []string) error {
			if specPath == "" {
				return perr.InputInvalid{Reason: "--spec is required"}
			}
			if tag == "" {
				return perr.InputInvalid{Reason: "--tag is required"}
			}
			if builderAddr == "" {
				builderAddr = os.Getenv("BUILDKIT_HOST")
			}
			if builderAddr == "" {
				builderAddr = defaultBuilderAddr
			}

			ub, err := loadUniversalBuild(specPath, serviceName)
			if err != nil {
				return err
			}
			if err := ub.Valid(); err != nil {
				return perr.InputInvalid{Reason: err.Error()}
			}

			output, err := session.ParseOutput(outputRaw)
			if err != nil {
				return perr.InputInvalid{Reason: err.Error()}
			}

			cacheImports, err := cacheopt.ParseAll(cacheFrom, cacheopt.Import)
			if err != nil {
				return perr.InputInvalid{Reason: err.Error()}
			}
			cacheExports, err := cacheopt.ParseAll(cacheTo, cacheopt.Export)
			if err != nil {
				return perr.InputInvalid{Reason: err.Error()}
			}

			cfg, err := config.NewDefault()
			if err != nil {
				cfg = config.New()
			}

			if contextPath == "" {
				contextPath = "."
			}

			conn, err := session.Dial(cmd.Context(), builderAddr)
			if err != nil {
				return err
			}
			defer conn.Close()

			result, err := session.Build(cmd.Context(), conn, ub, session.Options{
				Tag:             tag,
				ContextPath:     contextPath,
				Output:          output,
				CacheImports:    cacheImports,
				CacheExports:    cacheExports,
				CacheDir:        cfg.CacheDir,
				AppName:         ub.Metadata.ProjectName,
				SBOM:            sbom,
				Provenance:      provenance,
				Progress:        progressLogger(cmd),
				Warn:            func(msg string) { slog.Warn(msg) },
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "built %s (%d bytes)\n", result.ImageDigest, result.BytesWritten)
			return nil
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "", "path to a UniversalBuild (or array-of-one) JSON file")
	cmd.Flags().StringVar(&tag, "tag", "", "image tag to build")
	cmd.Flags().StringVar(&serviceName, "service", "", "select one service by project name when --spec holds an array")
	cmd.Flags().StringVar(&contextPath, "context", "", "build context directory (default: current directory)")
	cmd.Flags().StringVar(&outputRaw, "output", "type=docker", "type=docker|type=oci,dest=...|type=local,dest=...|dest=...")
	cmd.Flags().StringArrayVar(&cacheFrom, "cache-from", nil, "cache import, see spec.md §6 grammar")
	cmd.Flags().StringArrayVar(&cacheTo, "cache-to", nil, "cache export, see spec.md §6 grammar")
	cmd.Flags().StringVar(&builderAddr, "builder", "", "builder address (default: $BUILDKIT_HOST or "+defaultBuilderAddr+")")
	cmd.Flags().BoolVar(&sbom, "sbom", false, "request an SBOM attestation")
	cmd.Flags().Lookup("sbom").NoOptDefVal = "true"
	cmd.Flags().StringVar(&provenance, "provenance", "", "min|max|no provenance attestation level")

	return cmd
}

// loadUniversalBuild reads specPath, accepting both a bare object and
// an array-of-one (or array-of-many, narrowed by --service) per
// spec.md §6.
func loadUniversalBuild(specPath, serviceName string) (universalbuild.UniversalBuild, error) {
	data, err := os.ReadFile(specPath)
	if err != nil {
		return universalbuild.UniversalBuild{}, perr.InputInvalid{Reason: fmt.Sprintf("cannot read %q: %v", specPath, err)}
	}

	var builds []universalbuild.UniversalBuild
	if err := json.Unmarshal(data, &builds); err != nil {
		var single universalbuild.UniversalBuild
		if err := json.Unmarshal(data, &single); err != nil {
			return universalbuild.UniversalBuild{}, perr.InputInvalid{Reason: fmt.Sprintf("%q is not a valid UniversalBuild document: %v", specPath, err)}
		}
		builds = []universalbuild.UniversalBuild{single}
	}

	if len(builds) == 0 {
		return universalbuild.UniversalBuild{}, perr.InputInvalid{Reason: fmt.Sprintf("%q contains no services", specPath)}
	}
	if len(builds) == 1 {
		return builds[0], nil
	}
	if serviceName == "" {
		return universalbuild.UniversalBuild{}, perr.InputInvalid{Reason: "--spec holds multiple services; --service is required"}
	}
	for _, b := range builds {
		if b.Metadata.ProjectName == serviceName {
			return b, nil
		}
	}
	return universalbuild.UniversalBuild{}, perr.InputInvalid{Reason: fmt.Sprintf("no service named %q in %q", serviceName, specPath)}
}

// progressLogger forwards B5 progress deltas to stderr as they arrive.
func progressLogger(cmd *cobra.Command) func(session.Update) {
	return func(u session.Update) {
		for _, l := range u.Logs {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s", l.Data)
		}
		for _, w := range u.Warnings {
			slog.Warn(string(w.Short))
		}
	}
}
