package main

import (
	_ "embed"

	"github.com/haierkeys/fast-note-web/cmd"
	"github.com/haierkeys/fast-note-web/frontend"
)

//go:embed config/config.yaml
var c string

// @title Fast Note Web API
// @version 1.0
// @description 笔记的增删改查与摘要搜索
// @BasePath /
func main() {
	cmd.Execute(frontend.Files, c)
}
