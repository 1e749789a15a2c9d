package pipeline

import (
	"io"
	"mime/multipart"
)

// Kind names an operation. It is also the persisted creation type.
type Kind string

const (
	KindArticle           Kind = "article"
	KindBlogTitle         Kind = "blog-title"
	KindImage             Kind = "image"
	KindBackgroundRemoval Kind = "background-removal"
	KindObjectRemoval     Kind = "object-removal"
	KindResumeReview      Kind = "resume-review"
)

// Request is one operation invocation. Fields an operation does not use are ignored.
type Request struct {
	Kind    Kind
	Prompt  string
	Object  string
	Length  int
	Publish bool
	File    File
}

// File is an uploaded file.
type File interface {
	Filename() string
	Size() int64
	ContentType() string
	Bytes() ([]byte, error)
}

// MultipartFile adapts a form upload. A nil header yields a nil File.
func MultipartFile(fh *multipart.FileHeader) File {
	if fh == nil {
		return nil
	}
	return &multipartFile{header: fh}
}

type multipartFile struct {
	header *multipart.FileHeader
}

func (f *multipartFile) Filename() string { return f.header.Filename }
func (f *multipartFile) Size() int64      { return f.header.Size }

func (f *multipartFile) ContentType() string {
	return f.header.Header.Get("Content-Type")
}

func (f *multipartFile) Bytes() ([]byte, error) {
	src, err := f.header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}

// NewMemoryFile wraps data already in memory.
func NewMemoryFile(name, contentType string, data []byte) File {
	return &memoryFile{name: name, contentType: contentType, data: data}
}

type memoryFile struct {
	name        string
	contentType string
	data        []byte
}

func (f *memoryFile) Filename() string       { return f.name }
func (f *memoryFile) Size() int64            { return int64(len(f.data)) }
func (f *memoryFile) ContentType() string    { return f.contentType }
func (f *memoryFile) Bytes() ([]byte, error) { return f.data, nil }
