package session

import (
	"context"
	"fmt"

	"github.com/moby/buildkit/client/llb"
	"github.com/pkg/errors"

	"github.com/peelbox/peelbox/pkg/universalbuild"
)

// ContextLocalName is the session-provided local source name the LLB
// graph references for the build context, and the same name the
// frontend-input mapping and FileSync scope (filesync.go) bind to.
// Fixed by spec.md §4.B2 ("a session-provided local named \"context\"").
const ContextLocalName = "context"

// Encode translates a UniversalBuild into the builder's LLB graph
// (spec.md §4.B2): a two-stage pipeline over the runtime plugin's
// base image — copy in the session-provided context, run the build
// commands with the build environment, then copy the declared runtime
// artifacts into a fresh runtime-stage state with the runtime
// environment and working directory set. Build and runtime packages
// are not installed, and the runtime command is not recorded in the
// graph.
//
// This mirrors the shape original_source's LLBBuilder produced (a
// context-local source plus a stable session id for call routing) but
// expressed through moby/buildkit/client/llb's own graph builder
// instead of hand-assembling the protobuf Op messages session.rs's
// tonic-based client had to: llb.State.Marshal already emits the same
// Definition message the builder decodes, so there is nothing left to
// hand-roll here.
func Encode(ctx context.Context, ub universalbuild.UniversalBuild, sessionID string) (*llb.Definition, error) {
	if ub.Runtime.BaseImage == "" {
		return nil, errors.New("universalbuild has no runtime.base_image to build from")
	}

	buildBase := llb.Image(ub.Runtime.BaseImage, llb.WithCustomNamef("session %s: base image", sessionID))
	buildCtx := llb.Local(ContextLocalName,
		llb.SessionID(sessionID),
		llb.WithCustomNamef("session %s: load build context", sessionID),
	)

	build := buildBase.Dir(workdirOrDefault(ub.Runtime.Workdir))
	build = withEnv(build, ub.Build.Env)
	build = build.File(llb.Copy(buildCtx, "/", ".", &llb.CopyInfo{CreateDestPath: true}))

	for _, cmd := range ub.Build.Commands {
		build = build.Run(
			llb.Shlex(cmd),
			llb.WithCustomNamef("session %s: %s", sessionID, cmd),
		).Root()
	}

	runtime := llb.Image(ub.Runtime.BaseImage, llb.WithCustomNamef("session %s: runtime image", sessionID))
	runtime = runtime.Dir(workdirOrDefault(ub.Runtime.Workdir))
	runtime = withEnv(runtime, ub.Runtime.Env)

	for _, entry := range ub.Runtime.Copy {
		runtime = runtime.File(llb.Copy(build, entry.From, entry.To, &llb.CopyInfo{CreateDestPath: true}))
	}

	def, err := runtime.Marshal(ctx, llb.WithCustomNamef("session %s: %s", sessionID, ub.Metadata.ProjectName))
	if err != nil {
		return nil, errors.Wrap(err, "marshaling LLB definition")
	}
	return def, nil
}

func workdirOrDefault(wd string) string {
	if wd == "" {
		return "/app"
	}
	return wd
}

func withEnv(s llb.State, env map[string]string) llb.State {
	for k, v := range env {
		s = s.AddEnv(k, v)
	}
	return s
}

// SolveRef derives a unique-but-correlatable solve ref: unique per
// build call (so concurrent builds never collide on "job ID exists"),
// stable-prefixed by the session ID (so cache correlates to the
// session), matching session.rs's "{session_id}-{uuid}" ref scheme.
func SolveRef(sessionID string, suffix string) string {
	return fmt.Sprintf("%s-%s", sessionID, suffix)
}
