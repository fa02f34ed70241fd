package global

import (
	"path/filepath"

	"github.com/haierkeys/fast-note-web/pkg/fileurl"
)

var (
	// 程序执行目录
	ROOT string
	Name string = "Fast Note Web"
)

func init() {

	filename := fileurl.GetExePath()
	ROOT = filename + "/"

}

// Path resolves p against the executable directory unless it is already absolute.
// Path 将相对路径解析到程序执行目录
func Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(ROOT, p)
}
