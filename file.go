// Copyright 2026 The hkx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// license that can be found in the LICENSE file.

package hkx

import (
	"os"

	"github.com/cespare/xxhash/v2"
	mmap "github.com/edsrzf/mmap-go"

	"github.com/gohkx/hkx/internal/log"
)

// MinFileSize is the smallest input that can possibly hold a single
// section header (size+flags word plus the 4-byte tag).
const MinFileSize = sectionHeaderSize

// Options controls parsing behavior.
type Options struct {
	// StrictPointerTypes rejects pointer and non-inline-array targets
	// whose item type is not a subtype of (or OPAQUE relative to) the
	// declared element type. When nil, defaults to true.
	StrictPointerTypes *bool

	// MaxTypes bounds the number of type dictionary entries a file may
	// declare via TNA1, guarding against a corrupt count field driving
	// an enormous allocation. Zero means unbounded.
	MaxTypes uint32

	// MaxItems bounds the number of item table records a file's INDX
	// section may contain. Zero means unbounded.
	MaxItems uint32

	// Logger is a custom logger. When nil, a stderr logger filtered to
	// warnings and above is used.
	Logger log.Logger
}

func (o *Options) strict() bool {
	if o == nil || o.StrictPointerTypes == nil {
		return true
	}
	return *o.StrictPointerTypes
}

// File represents a parsed HKX tag container.
type File struct {
	// Version is the raw ASCII contents of the SDKV section, if present.
	Version string

	// Dictionary is the reconstructed type dictionary built from TYPE.
	Dictionary *Dictionary

	// Items is the item table built from INDX.
	Items *ItemTable

	raw    []byte // the whole input, for Digest
	data   []byte // the DATA section payload
	mapped mmap.MMap
	f      *os.File
	opts   *Options
	logger *log.Helper
	deser  *Deserializer
}

// New opens name, memory-maps it, and parses it as an HKX container.
func New(name string, opts *Options) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	mapped, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	file, err := newFile(mapped, opts)
	if err != nil {
		mapped.Unmap()
		f.Close()
		return nil, err
	}
	file.mapped = mapped
	file.f = f
	return file, nil
}

// NewBytes parses an in-memory buffer as an HKX container.
func NewBytes(data []byte, opts *Options) (*File, error) {
	return newFile(data, opts)
}

func newFile(data []byte, opts *Options) (*File, error) {
	if opts == nil {
		opts = &Options{}
	}

	var logger log.Logger
	if opts.Logger == nil {
		logger = log.NewStdLogger(os.Stderr)
		logger = log.NewFilter(logger, log.FilterLevel(log.LevelWarn))
	} else {
		logger = opts.Logger
	}

	file := &File{
		raw:    data,
		opts:   opts,
		logger: log.NewHelper(logger),
	}

	if err := file.parse(); err != nil {
		return nil, err
	}
	return file, nil
}

// Close unmaps and closes the underlying file, when File was opened via New.
func (file *File) Close() error {
	if file.mapped != nil {
		_ = file.mapped.Unmap()
	}
	if file.f != nil {
		return file.f.Close()
	}
	return nil
}

// Digest returns the xxHash64 digest of the raw input bytes, useful as a
// cheap content-addressed cache key for parsed files.
func (file *File) Digest() uint64 {
	return xxhash.Sum64(file.raw)
}

// parse walks the outer TAG0 section and dispatches its SDKV, INDX, TYPE,
// and DATA children, then wires a Deserializer over the result. Sections
// other than those four are skipped, and TAG0's children may appear in any
// order: the dictionaryBuilder and the item table are constructed
// independently of DATA, which is only ever read lazily through the
// Deserializer once every section has been parsed.
func (file *File) parse() error {
	if len(file.raw) < MinFileSize {
		return ErrFileTooSmall
	}

	builder := newDictionaryBuilder(file.opts.MaxTypes)
	var items *ItemTable
	var dataPayload []byte
	sawTag0 := false

	tag0Handlers := map[string]SectionHandler{
		"SDKV": func(p *BufferReader) error {
			file.Version = string(p.Read(p.Len()-p.Tell(), false, 0))
			return nil
		},
		"INDX": func(p *BufferReader) error {
			return ReadSections(p, map[string]SectionHandler{
				"ITEM": func(itemPayload *BufferReader) error {
					table, err := parseItemTable(itemPayload)
					if err != nil {
						return err
					}
					if file.opts.MaxItems != 0 && uint32(len(table.Items)) > file.opts.MaxItems {
						return ErrTooManyItems
					}
					items = table
					return nil
				},
			})
		},
		"TYPE": func(p *BufferReader) error {
			return ReadSections(p, builder.handlers())
		},
		"DATA": func(p *BufferReader) error {
			dataPayload = p.Read(p.Len()-p.Tell(), false, 0)
			return nil
		},
	}

	if err := ReadSections(NewBufferReader(file.raw), map[string]SectionHandler{
		"TAG0": func(payload *BufferReader) error {
			sawTag0 = true
			return ReadSections(payload, tag0Handlers)
		},
	}); err != nil {
		return err
	}
	if !sawTag0 {
		return ErrFileTooSmall
	}

	file.Dictionary = builder.dict
	if file.Dictionary.Types == nil {
		file.Dictionary = &Dictionary{Types: make([]Type, 1)}
	}

	if items == nil {
		items = &ItemTable{Items: make([]Item, 1)}
	}
	file.Items = items
	file.data = dataPayload

	file.deser = NewDeserializer(NewBufferReader(file.data), file.Dictionary, file.Items, file.opts.strict(), file.logger)
	return nil
}

// Deserialize decodes item ordinal idx into the generic value tree.
func (file *File) Deserialize(idx uint64) (Value, error) {
	return file.deser.DeserializeItemOrdinal(idx)
}
