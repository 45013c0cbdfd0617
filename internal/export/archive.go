package export

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"takes-cli/internal/model"
)

// WriteFolderArchive packages a folder as a zip: subfolders become nested
// directories, each take renders to `<name>.pdf` via WriteTakeReport. The
// archive root is the folder's own name.
func WriteFolderArchive(w io.Writer, folder model.Item, items []model.Item) error {
	if !folder.IsFolder() {
		return fmt.Errorf("%s is not a folder", folder.ID)
	}

	zw := zip.NewWriter(w)
	if err := addFolder(zw, folder.ID, SafeName(folder.Name)+"/", items); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

func addFolder(zw *zip.Writer, folderID, prefix string, items []model.Item) error {
	for _, it := range items {
		if it.ParentID == nil || *it.ParentID != folderID {
			continue
		}
		if it.IsFolder() {
			if err := addFolder(zw, it.ID, prefix+SafeName(it.Name)+"/", items); err != nil {
				return err
			}
			continue
		}
		f, err := zw.Create(prefix + SafeName(it.Name) + ".pdf")
		if err != nil {
			return err
		}
		if err := WriteTakeReport(f, it); err != nil {
			return err
		}
	}
	return nil
}

// SafeName keeps user labels from escaping their directory inside the
// archive.
func SafeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	if name == "" {
		return "untitled"
	}
	return name
}
