package session

import (
	"os"

	"github.com/docker/cli/cli/config"
	bksession "github.com/moby/buildkit/session"
	"github.com/moby/buildkit/session/auth/authprovider"
)

// AuthAttachable vends registry credentials over the session's Auth
// service (spec.md §4.B4). Rather than hand-writing a stub service —
// session.rs's AuthService always answers anonymously because tonic
// gave it no credential store to draw from — this reuses
// authprovider.NewDockerAuthProvider (the same provider docker-buildx
// wires into every build, other_examples/…docker-buildx…build.go.go's
// authprovider import) which reads the local docker config.json and
// falls back to an anonymous token when no matching entry exists, so
// a private registry already logged into via `docker login` just
// works without peelbox reimplementing credential storage.
func AuthAttachable() bksession.Attachable {
	return authprovider.NewDockerAuthProvider(authprovider.DockerAuthProviderConfig{
		ConfigFile: config.LoadDefaultConfigFile(os.Stderr),
	})
}
