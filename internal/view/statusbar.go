package view

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
	"strings"
	"time"

	"github.com/treykane/filecols/internal/config"
	"github.com/treykane/filecols/internal/humanize"
)

// Message is a transient status-line notice.
type Message struct {
	Text    string
	Bad     bool
	Expires time.Time
}

// Alive reports whether the message should still be shown at now.
func (m Message) Alive(now time.Time) bool {
	return !now.After(m.Expires)
}

// Ruler describes where the selection sits in a listing of maxPos entries
// shown in height rows. pos is one-based.
func Ruler(pos, maxPos, height int) string {
	switch {
	case maxPos <= height:
		return "--All--"
	case pos == 1:
		return "--Top--"
	case pos >= maxPos:
		return "--Bot--"
	default:
		return fmt.Sprintf("--%02d%%--", pos*100/maxPos)
	}
}

// StatusBar is the one-line summary of the selected entry and its directory.
type StatusBar struct {
	env     *Env
	surface Surface
	width   int

	// LookupUser and LookupGroup resolve ids to names.
	LookupUser  func(uid uint32) (string, error)
	LookupGroup func(gid uint32) (string, error)
	// FreeSpace returns the bytes available to unprivileged users on the
	// filesystem holding path.
	FreeSpace func(path string) (int64, error)
	UID       func() int

	owners map[uint32]string
	groups map[uint32]string

	hint    string
	oldHint string
	msg     *Message

	column     *Column
	oldPointed Entry
	oldCtime   time.Time
	oldMinute  string
	oldDU      int64
	result     []BarPart
	needRedraw bool

	unsubscribe func()
}

// NewStatusBar creates a status bar drawing on surface.
func NewStatusBar(env *Env, surface Surface) *StatusBar {
	sb := &StatusBar{
		env:         env,
		LookupUser:  LookupUser,
		LookupGroup: LookupGroup,
		FreeSpace:   DiskFree,
		UID:         os.Getuid,
		owners:      make(map[uint32]string),
		groups:      make(map[uint32]string),
		needRedraw:  true,
	}
	sb.Resize(surface)
	if env.Settings != nil {
		sb.unsubscribe = env.Settings.Subscribe(func(config.Settings) { sb.needRedraw = true })
	}
	return sb
}

// Close releases the settings subscription.
func (sb *StatusBar) Close() {
	if sb.unsubscribe != nil {
		sb.unsubscribe()
		sb.unsubscribe = nil
	}
}

// Resize moves the bar to a new surface.
func (sb *StatusBar) Resize(surface Surface) {
	sb.surface = surface
	if surface != nil {
		_, sb.width = surface.Size()
	}
	sb.needRedraw = true
}

// RequestRedraw forces a repaint on the next Draw.
func (sb *StatusBar) RequestRedraw() { sb.needRedraw = true }

// Notify shows text in place of the bar for duration.
func (sb *StatusBar) Notify(text string, duration time.Duration, bad bool) {
	sb.msg = &Message{Text: text, Bad: bad, Expires: sb.env.now().Add(duration)}
}

// ClearMessage drops any pending message.
func (sb *StatusBar) ClearMessage() { sb.msg = nil }

// SetHint replaces the bar with a key hint until cleared with "". Text
// between asterisks is highlighted.
func (sb *StatusBar) SetHint(hint string) { sb.hint = hint }

// Result returns the parts drawn last.
func (sb *StatusBar) Result() []BarPart { return sb.result }

// Draw repaints the bar for the directory shown in main when anything it
// displays has changed.
func (sb *StatusBar) Draw(main *Column) {
	if sb.surface == nil {
		return
	}
	if main != sb.column {
		sb.column = main
		sb.needRedraw = true
	}

	if sb.hint != "" {
		if sb.oldHint != sb.hint {
			sb.oldHint = sb.hint
			sb.needRedraw = true
		}
		if sb.needRedraw {
			sb.drawHint()
			sb.needRedraw = false
		}
		return
	}
	if sb.oldHint != "" {
		sb.oldHint = ""
		sb.needRedraw = true
	}

	now := sb.env.now()
	if sb.msg != nil {
		if sb.msg.Alive(now) {
			sb.drawMessage()
			return
		}
		sb.msg = nil
		sb.needRedraw = true
	}

	dir := sb.directory()
	var pointed Entry
	var ctime time.Time
	var du int64
	if dir != nil {
		du = dir.DiskUsage()
		pointed = dir.PointedEntry()
		if pointed != nil {
			pointed.LoadIfOutdated()
			if st, ok := pointed.Stat(); ok {
				ctime = st.ChangeTime
			}
		}
	}
	minute := now.Format("04")

	if sb.result == nil {
		sb.needRedraw = true
	}
	if du != sb.oldDU {
		sb.oldDU = du
		sb.needRedraw = true
	}
	if pointed != sb.oldPointed {
		sb.oldPointed = pointed
		sb.needRedraw = true
	}
	if minute != sb.oldMinute {
		sb.oldMinute = minute
		sb.needRedraw = true
	}
	if !ctime.Equal(sb.oldCtime) {
		sb.oldCtime = ctime
		sb.needRedraw = true
	}

	if sb.needRedraw {
		sb.needRedraw = false
		sb.result = sb.calcBar(dir, pointed, now)
		sb.printResult()
	}
}

func (sb *StatusBar) directory() Directory {
	var t Target
	if sb.column != nil {
		t = sb.column.Target()
	}
	if d, ok := t.(Directory); ok {
		return d
	}
	if sb.env.CurrentTab == nil {
		return nil
	}
	tab := sb.env.CurrentTab()
	if tab == nil {
		return nil
	}
	d, _ := tab.AtLevel(0).(Directory)
	return d
}

func (sb *StatusBar) columnHeight() int {
	if sb.column == nil {
		return 0
	}
	_, _, h, _ := sb.column.Bounds()
	return h
}

func (sb *StatusBar) calcBar(dir Directory, pointed Entry, now time.Time) []BarPart {
	bar := NewBar("in_statusbar")
	s := sb.settings()
	sb.leftPart(&bar.Left, pointed, s)
	sb.rightPart(&bar.Right, dir, pointed, s, now)
	bar.ShrinkByRemoving(sb.width)
	return bar.Combine()
}

func (sb *StatusBar) settings() config.Settings {
	if sb.env.Settings == nil {
		return config.Default()
	}
	return sb.env.Settings.Get()
}

func (sb *StatusBar) leftPart(left *BarSide, target Entry, s config.Settings) {
	if target == nil {
		return
	}
	st, ok := target.Stat()
	if !ok {
		left.Add("empty", "permissions")
		left.Add("|", "lspace")
		return
	}

	perms := PermissionString(target, st)
	if mode := sb.env.mode(); mode != "normal" {
		perms = "--" + strings.ToUpper(mode) + "--"
	}
	how := "bad"
	if sb.UID != nil && uint32(sb.UID()) == st.UID {
		how = "good"
	}
	left.Add("[", "permissions")
	left.Add(perms, "permissions", how)
	left.Add("]", "permissions")
	left.Add("|", "lspace")
	left.Add(sb.owner(st.UID), "owner")
	left.Add(":", "owner")
	left.Add(sb.group(st.GID), "group")
	left.Add("|", "lspace")
	left.Add(humanize.Strftime(s.TimeFormat, st.ModTime), "mtime")
	left.Add("|", "lspace")

	if stars := sb.env.rating(target.Path()); stars > 0 && s.DisplayRating {
		left.Add(strings.Repeat("★", stars), "stars")
		left.Add("|", "lspace")
	}
}

func (sb *StatusBar) owner(uid uint32) string {
	if name, ok := sb.owners[uid]; ok {
		return name
	}
	name, err := sb.LookupUser(uid)
	if err != nil {
		log.Debug("owner lookup failed", "uid", uid, "error", err)
		return strconv.FormatUint(uint64(uid), 10)
	}
	sb.owners[uid] = name
	return name
}

func (sb *StatusBar) group(gid uint32) string {
	if name, ok := sb.groups[gid]; ok {
		return name
	}
	name, err := sb.LookupGroup(gid)
	if err != nil {
		log.Debug("group lookup failed", "gid", gid, "error", err)
		return strconv.FormatUint(uint64(gid), 10)
	}
	sb.groups[gid] = name
	return name
}

// LookupUser resolves a uid to a user name.
func LookupUser(uid uint32) (string, error) {
	u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10))
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// LookupGroup resolves a gid to a group name.
func LookupGroup(gid uint32) (string, error) {
	g, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10))
	if err != nil {
		return "", err
	}
	return g.Name, nil
}

func (sb *StatusBar) symlinkInfo(right *BarSide, target Entry) bool {
	if target == nil || !target.IsLink() {
		return false
	}
	how := "bad"
	if target.Exists() {
		how = "good"
	}
	dest, err := os.Readlink(target.Path())
	if err != nil {
		dest = "?"
	}
	right.Add(` -> "`+dest+`"`, "link", how)
	return true
}

func (sb *StatusBar) rightPart(right *BarSide, dir Directory, pointed Entry, s config.Settings, now time.Time) {
	if dir == nil || !dir.Accessible() || !dir.ContentLoaded() {
		return
	}
	entries := dir.Entries()
	marked := dir.MarkedItems()

	if len(marked) == 0 && sb.symlinkInfo(right, pointed) {
		return
	}

	right.Add("|", "rspace")

	if f := dir.Filter(); f != "" {
		right.Add("f='", "scroll", "filter")
		right.Add(f, "scroll", "filter")
		right.Add("'", "scroll", "filter")
		right.Add("|", "rspace")
	}

	sb.sizeInfo(right, dir, pointed, marked, s)
	right.Add("|", "rspace")

	pos := dir.Pointer() + 1
	maxPos := len(entries)
	hidden := dir.HiddenCount()
	switch {
	case len(marked) > 0:
		right.Add("Mark", "scroll", "marked")
	case maxPos > 0:
		counts := strconv.Itoa(pos) + "/" + strconv.Itoa(maxPos)
		if hidden > 0 {
			counts += "(+" + strconv.Itoa(hidden) + ")"
		}
		right.Add(counts+" ", "scroll", "ruler")
		ruler := Ruler(pos, maxPos, sb.columnHeight())
		right.Add(ruler, "scroll", rulerTag(ruler))
	case dir.Filter() != "" && hidden > 0:
		right.Add("0/0(+"+strconv.Itoa(hidden)+") --All--", "scroll", "all")
	default:
		right.Add("0/0  --All--", "scroll", "all")
	}

	if s.ShowHidden {
		right.Add("[H]", "permissions")
	}
	if s.DisplayTimeInStatusBar {
		right.Add("|", "rspace")
		right.Add("[", "systime")
		right.Add(humanize.Strftime(s.TimeFormat, now), "systime")
		right.Add("]", "systime")
	}
	if s.FreezeFiles {
		right.Add("|", "rspace")
		right.Add("FROZEN", "scroll", "frozen")
	}
}

func rulerTag(ruler string) string {
	switch ruler {
	case "--All--":
		return "all"
	case "--Top--":
		return "top"
	case "--Bot--":
		return "bot"
	}
	return "percentage"
}

func (sb *StatusBar) sizeInfo(right *BarSide, dir Directory, pointed Entry, marked []Entry, s config.Settings) {
	opts := humanize.Options{InBytes: s.SizeInBytes, ZeroPrefix: s.SizeZeroPrefix}
	if len(marked) > 0 {
		if len(marked) == len(dir.Entries()) {
			right.Add(humanize.Bytes(dir.DiskUsage(), "", opts), "size")
		} else {
			var sum int64
			for _, e := range marked {
				if e.Kind() != KindDir {
					sum += e.Size()
				}
			}
			right.Add(humanize.Bytes(sum, "", opts), "size")
		}
		right.Add("/"+strconv.Itoa(len(marked)), "size")
		return
	}

	shown := false
	if s.DisplaySizeInStatusBar {
		var size int64
		if pointed != nil {
			size = pointed.Size()
		}
		right.Add(humanize.Bytes(size, " ", opts), "size")
		shown = true
	}
	if s.DisplayFileSpaceInStatusBar {
		if shown {
			right.Add("/", "size")
		}
		right.Add(humanize.Bytes(dir.DiskUsage(), "", opts), "size")
		shown = true
	}
	if s.DisplayFreeSpaceInStatusBar {
		if shown {
			right.Add("/", "size")
		}
		free, err := sb.FreeSpace(dir.Path())
		if err != nil {
			log.Warn("free space lookup failed", "path", dir.Path(), "error", err)
			right.Add("ERR", "size")
		} else {
			right.Add(humanize.Bytes(free, "", opts), "size")
		}
	}
}

func (sb *StatusBar) printResult() {
	sb.surface.Erase()
	col := 0
	for _, p := range sb.result {
		sb.surface.Write(0, col, p.Text, sb.env.colors(p.Tags))
		col += p.Width()
	}
}

func (sb *StatusBar) drawMessage() {
	sb.surface.Erase()
	how := "good"
	if sb.msg.Bad {
		how = "bad"
	}
	sb.surface.Write(0, 0, SliceWidth(sb.msg.Text, sb.width), sb.env.colors([]string{"in_statusbar", "message", how}))
}

func (sb *StatusBar) drawHint() {
	sb.surface.Erase()
	highlight := true
	col := 0
	for _, chunk := range strings.Split(sb.hint, "*") {
		highlight = !highlight
		if col >= sb.width {
			break
		}
		tags := []string{"in_statusbar", "text"}
		if highlight {
			tags = append(tags, "highlight")
		}
		text := SliceWidth(chunk, sb.width-col)
		sb.surface.Write(0, col, text, sb.env.colors(tags))
		col += TextWidth(text)
	}
}
