// Package filer is an interface used in the datorr subpackages.
// You may override this to gain more control of operations in your app.
package filer

//go:generate mockgen -destination=../mocks/filer.go -package=mocks golift.io/datorr/filer Filer
//go:generate mockgen -destination=../mocks/fileinfo.go -package=mocks os FileInfo

import (
	"io/ioutil"
	"os"
)

// Filer is used to override file-managing procedures.
type Filer interface {
	Remove(fileName string) error
	ReadDir(dirPath string) ([]os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	OpenFile(name string, flag int, perm os.FileMode) (*os.File, error)
}

// Default returns a Filer interface that works, using default procedures.
func Default() Filer {
	return &File{}
}

// File can be embedded in a custom type to provide the missing methods for the Filer interface.
type File struct{}

// Remove provides os.Remove.
func (f *File) Remove(fileName string) error {
	return os.Remove(fileName)
}

// ReadDir provides ioutil.ReadDir.
func (f *File) ReadDir(dirname string) ([]os.FileInfo, error) {
	return ioutil.ReadDir(dirname)
}

// MkdirAll provides os.MkdirAll.
func (f *File) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// OpenFile provides os.OpenFile.
func (f *File) OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, flag, perm)
}
