// Package fixlinks rewrites absolute symlinks inside a rootfs tree into
// equivalent relative ones.
//
// A link at depth d (the root's direct children are depth 0) whose target is
// /a/b is rewritten to d copies of "../" followed by a/b, which resolves from
// the link's own directory to <root>/a/b. The rewrite is installed only when
// that path exists; relative links are never touched.
//
// The pipeline per entry is Inspect -> Rewrite -> Gate.Apply, driven by the
// walker in Fixer.Run. Failures are classified by a Policy which decides
// whether to skip the entry, abandon the rest of the directory, or stop.
package fixlinks
