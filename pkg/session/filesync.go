package session

import (
	bksession "github.com/moby/buildkit/session"
	"github.com/moby/buildkit/session/filesync"
	"github.com/sabhiram/go-gitignore"
	"github.com/tonistiigi/fsutil"
	fstypes "github.com/tonistiigi/fsutil/types"

	"github.com/peelbox/peelbox/pkg/filesystem"
)

// FileSyncAttachable builds the session.Attachable answering the
// builder's FileSync DiffCopy/TarStream requests for the declared
// context directory (spec.md §4.B4). filesync.FSSyncProvider already
// does the path-normalization-against-escape the spec requires — it
// walks strictly under the given directory — so peelbox's own
// responsibility here is narrower: apply .gitignore-style exclusion
// before the directory ever reaches the provider. The exclusion
// predicate is answered by pkg/filesystem's maskingFS (over an
// os-backed view of contextDir) rather than re-deriving it inline, so
// fsutil's per-path Map callback and a plain Filesystem.Stat agree on
// exactly the same masked set.
//
// excludes is typically the repository's .gitignore content (read
// once, ahead of session attach); a nil/empty excludes list syncs the
// whole contextDir.
func FileSyncAttachable(contextDir string, excludes []string) bksession.Attachable {
	matcher := ignore.CompileIgnoreLines(excludes...)
	masked := func(p string) bool { return matcher != nil && matcher.MatchesPath(p) }
	mfs := filesystem.NewMaskingFS(masked, filesystem.NewOsFilesystem(contextDir))

	dirs := filesync.StaticDirSource{
		ContextLocalName: filesync.SyncedDir{
			Dir: contextDir,
			Map: func(path string, _ *fstypes.Stat) fsutil.MapResult {
				if _, err := mfs.Stat(path); err != nil {
					return fsutil.MapResultExclude
				}
				return fsutil.MapResultKeep
			},
		},
	}
	return filesync.NewFSSyncProvider(dirs)
}
