// Package vcs lists the files a branch adds relative to a base revision.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

var (
	ErrNotARepository = errors.New("not a git repository")
	ErrBaseRevision   = errors.New("cannot resolve base revision")
)

// Changes is the set of added files, as slash paths relative to Root
type Changes struct {
	Root  string
	Added []string
}

// AddedFiles opens the repository containing dir and reports every file that
// exists at HEAD or in the index but not at base. Files committed since base
// come from a tree diff, files staged but not yet committed from the
// worktree status.
func AddedFiles(ctx context.Context, dir, base string) (Changes, error) {
	var changes Changes

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return changes, fmt.Errorf("%w: %s", ErrNotARepository, dir)
		}
		return changes, err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return changes, fmt.Errorf("opening worktree: %w", err)
	}
	changes.Root = wt.Filesystem.Root()

	baseTree, err := treeAt(repo, base)
	if err != nil {
		return changes, fmt.Errorf("%w %q: %w", ErrBaseRevision, base, err)
	}

	head, err := repo.Head()
	if err != nil {
		return changes, fmt.Errorf("resolving HEAD: %w", err)
	}
	headTree, err := treeAt(repo, head.Hash().String())
	if err != nil {
		return changes, fmt.Errorf("reading HEAD tree: %w", err)
	}

	diff, err := object.DiffTreeWithOptions(ctx, baseTree, headTree, renameOptions)
	if err != nil {
		return changes, fmt.Errorf("diffing %s..HEAD: %w", base, err)
	}

	added := make(map[string]struct{})
	for _, change := range diff {
		action, err := change.Action()
		if err != nil {
			return changes, err
		}
		if action == merkletrie.Insert {
			added[change.To.Name] = struct{}{}
		}
	}

	status, err := wt.Status()
	if err != nil {
		return changes, fmt.Errorf("reading worktree status: %w", err)
	}
	for path, s := range status {
		if s.Staging == git.Added {
			added[path] = struct{}{}
		}
	}

	changes.Added = make([]string, 0, len(added))
	for path := range added {
		changes.Added = append(changes.Added, path)
	}
	sort.Strings(changes.Added)
	return changes, nil
}

// renameOptions pairs deletes with inserts the way git diff does by default,
// so a moved file is a modification rather than an addition.
var renameOptions = &object.DiffTreeOptions{
	DetectRenames: true,
	RenameScore:   50,
}

func treeAt(repo *git.Repository, rev string) (*object.Tree, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, err
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, err
	}
	return commit.Tree()
}

// Head describes the checked out commit
type Head struct {
	Branch string // short branch name, empty when detached
	Commit string
}

// HeadOf reports the current branch and commit of the repository containing dir.
func HeadOf(dir string) (Head, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return Head{}, fmt.Errorf("%w: %s", ErrNotARepository, dir)
		}
		return Head{}, err
	}

	ref, err := repo.Head()
	if err != nil {
		return Head{}, fmt.Errorf("resolving HEAD: %w", err)
	}

	head := Head{Commit: ref.Hash().String()}
	if ref.Name().IsBranch() {
		head.Branch = ref.Name().Short()
	}
	return head, nil
}
