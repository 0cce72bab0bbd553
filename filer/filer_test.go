package filer_test

import (
	"fmt"

	"golift.io/datorr/filer"
)

// Our interface must satify a filer.Filer.
var _ filer.Filer = (*MyFiler)(nil)

// Create a custom Filer that overrides only the Remove method.
type MyFiler struct {
	filer.File
}

func (f *MyFiler) Remove(fileName string) error {
	fmt.Printf("Removed %s\n", fileName)

	return nil
}

func ExampleFile() {
	// Pass s into any package that uses a filer.Filer.
	s := &MyFiler{}
	_ = s.Remove("old.file")
	// Output:
	// Removed old.file
}
