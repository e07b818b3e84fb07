package rpc

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/example/locfs/pkg/fs"
)

// FSStatToStruct converts filesystem statistics to a protobuf Struct
func FSStatToStruct(stat fs.FSStat) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"blockSize":     structpb.NewNumberValue(float64(stat.BlockSize)),
		"totalBlocks":   structpb.NewNumberValue(float64(stat.TotalBlocks)),
		"freeBlocks":    structpb.NewNumberValue(float64(stat.FreeBlocks)),
		"totalFiles":    structpb.NewNumberValue(float64(stat.TotalFiles)),
		"freeFiles":     structpb.NewNumberValue(float64(stat.FreeFiles)),
		"nameMaxLength": structpb.NewNumberValue(float64(stat.NameMaxLength)),
	}}
}

// StructToFSStat is the inverse of FSStatToStruct. Missing fields are zero.
func StructToFSStat(s *structpb.Struct) fs.FSStat {
	num := func(key string) float64 {
		return s.GetFields()[key].GetNumberValue()
	}
	return fs.FSStat{
		BlockSize:     uint32(num("blockSize")),
		TotalBlocks:   uint64(num("totalBlocks")),
		FreeBlocks:    uint64(num("freeBlocks")),
		TotalFiles:    uint64(num("totalFiles")),
		FreeFiles:     uint64(num("freeFiles")),
		NameMaxLength: uint32(num("nameMaxLength")),
	}
}

// DirEntriesToList converts directory entries to a protobuf ListValue of
// {name, inode, type} structs
func DirEntriesToList(entries []fs.DirEntry) *structpb.ListValue {
	list := &structpb.ListValue{Values: make([]*structpb.Value, len(entries))}
	for i, e := range entries {
		list.Values[i] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"name":  structpb.NewStringValue(e.Name),
			"inode": structpb.NewNumberValue(float64(e.Ino)),
			"type":  structpb.NewStringValue(e.Type.String()),
		}})
	}
	return list
}

// ListToDirEntries is the inverse of DirEntriesToList
func ListToDirEntries(list *structpb.ListValue) ([]fs.DirEntry, error) {
	entries := make([]fs.DirEntry, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		s := v.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("entry %d is not a struct", i)
		}
		fields := s.GetFields()
		entry := fs.DirEntry{
			Name: fields["name"].GetStringValue(),
			Ino:  uint64(fields["inode"].GetNumberValue()),
		}
		switch t := fields["type"].GetStringValue(); t {
		case fs.FileTypeDirectory.String():
			entry.Type = fs.FileTypeDirectory
		case fs.FileTypeRegular.String():
			entry.Type = fs.FileTypeRegular
		default:
			return nil, fmt.Errorf("entry %d has unknown type `%s`", i, t)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
