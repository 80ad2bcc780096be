package engine

import "github.com/cpcf/lineage/project"

type Context struct {
	Project     *project.FileSystem
	OutputRoot  string
	PackagePath string
}

func NewContext(p *project.FileSystem, outputRoot, packagePath string) Context {
	return Context{
		Project:     p,
		OutputRoot:  outputRoot,
		PackagePath: packagePath,
	}
}
