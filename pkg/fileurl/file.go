package fileurl

import (
	"os"
	"path/filepath"

	"github.com/gookit/goutil/fsutil"
)

// IsExist determines if the given path exists
// IsExist 判断所给路径是否存在
func IsExist(dst string) bool {
	return fsutil.PathExists(dst)
}

// CreatePath creates the parent directory of dst
// CreatePath 创建 dst 的上级目录
func CreatePath(dst string, perm os.FileMode) error {
	return fsutil.Mkdir(filepath.Dir(dst), perm)
}

// GetExePath gets directory of current execution file
// GetExePath 获取当前执行文件所在目录
func GetExePath() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
