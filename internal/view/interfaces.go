// Package view renders directory listings, file previews and the status
// line onto a cell surface.
//
// Everything here runs on the UI goroutine. The directory model, the
// settings store and the terminal are reached through the small interfaces
// declared in this file; internal/fsmodel, internal/config and
// internal/screen provide the concrete implementations.
package view

import (
	"errors"
	"io/fs"
	"time"

	"github.com/treykane/filecols/internal/config"
)

// Kind is the type of the object an entry resolves to.
type Kind int

const (
	KindFile Kind = iota
	KindDir
	KindDevice
	KindFifo
	KindSocket
)

// StatInfo is the subset of stat(2) the renderer reads.
type StatInfo struct {
	Mode       fs.FileMode
	UID        uint32
	GID        uint32
	Nlink      uint64
	Size       int64
	ModTime    time.Time
	ChangeTime time.Time
}

// VCSStatus is the per-file status code reported by the VCS collaborator.
type VCSStatus string

const (
	VCSConflict  VCSStatus = "conflict"
	VCSUntracked VCSStatus = "untracked"
	VCSDeleted   VCSStatus = "deleted"
	VCSChanged   VCSStatus = "changed"
	VCSStaged    VCSStatus = "staged"
	VCSIgnored   VCSStatus = "ignored"
	VCSSync      VCSStatus = "sync"
	VCSNone      VCSStatus = "none"
	VCSUnknown   VCSStatus = "unknown"
)

// VCSRemoteStatus describes a branch relative to its upstream.
type VCSRemoteStatus string

const (
	VCSRemoteDiverged VCSRemoteStatus = "diverged"
	VCSRemoteAhead    VCSRemoteStatus = "ahead"
	VCSRemoteBehind   VCSRemoteStatus = "behind"
	VCSRemoteSync     VCSRemoteStatus = "sync"
	VCSRemoteNone     VCSRemoteStatus = "none"
	VCSRemoteUnknown  VCSRemoteStatus = "unknown"
)

// Entry is one filesystem object inside a listing. Entries are owned by the
// loader; the renderer only reads them and fills their RowCache.
type Entry interface {
	Path() string
	Name() string
	Realpath() string
	Kind() Kind
	IsLink() bool
	// Exists is false for a symlink whose target is missing.
	Exists() bool
	Stat() (StatInfo, bool)
	Size() int64
	// InfoString is the loader's short summary: a size for files, an item
	// count for directories.
	InfoString() string
	Marked() bool
	MimeTags() []string
	VCSStatus() VCSStatus
	VCSRemoteStatus() VCSRemoteStatus
	// VCSTracked reports whether a directory entry is itself under version control.
	VCSTracked() bool
	Linemode() string
	RowCache() *FormatCache
	LastLoad() time.Time
	LoadIfOutdated() bool
}

// Target is what a column shows: a Directory or a File.
type Target interface {
	Path() string
}

// Selection is a cursor into a listing together with the first visible row.
type Selection interface {
	Pointer() int
	ScrollBegin() int
	SetScrollBegin(n int)
}

// Directory is a listing with a selection.
type Directory interface {
	Target
	Selection
	Entries() []Entry
	// Move selects the entry at index to, clamped to the listing.
	Move(to int)
	ContentLoaded() bool
	Accessible() bool
	LastUpdate() time.Time
	MarkedItems() []Entry
	DiskUsage() int64
	PointedEntry() Entry
	LoadContentIfOutdated() bool
	SortIfOutdated() bool
	HasVCSChild() bool
	VCSTracked() bool
	Filter() string
	HiddenCount() int
}

// File is a non-directory target shown through its preview.
type File interface {
	Target
	Accessible() bool
	// Regular is false for devices, sockets and dangling links.
	Regular() bool
	HasPreview() bool
	LastLoad() time.Time
	LoadIfOutdated() bool
	Preview(width, height int) (Preview, bool)
}

// Preview is the content shown for a file. Lines may carry ANSI styling.
type Preview struct {
	Lines []string
	Image bool
}

// Tab resolves the target shown at a level relative to its current directory:
// negative levels are ancestors, zero the directory itself, positive levels
// the pointed entry and below.
type Tab interface {
	ID() string
	AtLevel(level int) Target
}

// Metadata holds user-supplied attributes for one path (title, year, ...).
type Metadata map[string]string

// MetadataSource returns the metadata recorded for a path.
type MetadataSource interface {
	Metadata(path string) Metadata
}

// ErrNoInfoString is returned by linemodes that leave the info column to the
// default size display.
var ErrNoInfoString = errors.New("linemode has no info string")

// Linemode decides how an entry's name and info column are rendered.
type Linemode interface {
	Name() string
	FileTitle(e Entry, md Metadata) string
	InfoString(e Entry, md Metadata) (string, error)
	UsesMetadata() bool
	RequiredMetadata() []string
}

// LinemodeRegistry maps linemode names to implementations.
type LinemodeRegistry interface {
	Get(name string) (Linemode, bool)
	Default() Linemode
}

// TagSource reports tag markers by real path.
type TagSource interface {
	Marker(realpath string) (string, bool)
	Len() int
}

// CopyBuffer is the set of paths queued for copy or move.
type CopyBuffer interface {
	Contains(path string) bool
	Cut() bool
}

// Navigator performs the moves triggered by mouse clicks.
type Navigator interface {
	EnterDir(path string)
	Move(to int)
	MoveParent(n int)
	MoveRight()
	Open(path string)
	// FocusTab makes the tab with id current.
	FocusTab(id string)
}

// SettingsSource is satisfied by *config.Store.
type SettingsSource interface {
	Get() config.Settings
	Version() uint64
	Subscribe(fn func(config.Settings)) func()
}

// Env bundles the collaborators shared by every widget.
type Env struct {
	Settings   SettingsSource
	Colors     ColorResolver
	Linemodes  LinemodeRegistry
	Metadata   MetadataSource
	Tags       TagSource
	CopyBuffer CopyBuffer
	Nav        Navigator

	// Ratings returns the star count recorded for a path.
	Ratings    func(path string) int
	CurrentTab func() Tab

	// Mode is the input mode; anything other than "normal" replaces the
	// permission string in the status bar.
	Mode func() string
	Now  func() time.Time
}

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Env) mode() string {
	if e.Mode != nil {
		return e.Mode()
	}
	return "normal"
}

func (e *Env) rating(path string) int {
	if e.Ratings == nil {
		return 0
	}
	return e.Ratings(path)
}

func (e *Env) colors(tags []string) Attr {
	if e.Colors == nil {
		return Attr{}
	}
	return e.Colors(tags)
}

func (e *Env) tagMarker(realpath string) (string, bool) {
	if e.Tags == nil || e.Tags.Len() == 0 {
		return "", false
	}
	return e.Tags.Marker(realpath)
}

func (e *Env) copied(path string) bool {
	return e.CopyBuffer != nil && e.CopyBuffer.Contains(path)
}

func (e *Env) cut() bool {
	return e.CopyBuffer != nil && e.CopyBuffer.Cut()
}
