package ebook

import "context"

//go:generate mockgen -source=interface.go -destination=../mocks/ebook/mock_ebook.go -package=mock_ebook

// Archiver zips a staged build directory into an EPUB file.
type Archiver interface {
	Archive(ctx context.Context, buildDir, outputPath string) error
}

// Converter turns a staged package.opf into a Mobi file.
type Converter interface {
	Convert(ctx context.Context, opfPath, outputPath string) error
}

// Runner runs an external program in dir and returns its combined output.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}
