//go:build linux || darwin || freebsd

package fsmodel

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/treykane/filecols/internal/view"
)

// fillOwner adds owner, link count and inode change time. follow selects
// stat over lstat so a symlink reports its target.
func fillOwner(path string, follow bool, si *view.StatInfo) {
	var st unix.Stat_t
	var err error
	if follow {
		err = unix.Stat(path, &st)
	} else {
		err = unix.Lstat(path, &st)
	}
	if err != nil {
		log.Debug("stat owner", "path", path, "error", err)
		return
	}
	si.UID = st.Uid
	si.GID = st.Gid
	si.Nlink = uint64(st.Nlink)
	si.ChangeTime = time.Unix(st.Ctim.Unix())
}
