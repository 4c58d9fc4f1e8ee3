package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Workspace resolves tool paths. Relative paths are joined to Root; absolute
// paths are used as given.
type Workspace struct {
	Root string
}

func (w Workspace) resolve(p string) string {
	if filepath.IsAbs(p) || w.Root == "" {
		return p
	}
	return filepath.Join(w.Root, p)
}

// Builtins returns read_file, list_files and edit_file bound to ws.
func Builtins(ws Workspace) []Tool {
	return []Tool{ReadFile{ws}, ListFiles{ws}, EditFile{ws}}
}

type readFileInput struct {
	Path string `json:"path"`
}

type listFilesInput struct {
	Path string `json:"path"`
}

type editFileInput struct {
	Path   string `json:"path"`
	OldStr string `json:"old_str"`
	NewStr string `json:"new_str"`
}

type ReadFile struct{ ws Workspace }

func (ReadFile) Name() string { return "read_file" }

func (ReadFile) Description() string {
	return "Read the contents of a given relative file path. Use this when you want to see what's inside a file. Do not use this with directory names."
}

func (ReadFile) Schema() Schema {
	return Schema{
		Properties: map[string]Property{
			"path": {Type: "string", Description: "The relative path of a file in the working directory."},
		},
		Required: []string{"path"},
	}
}

func (t ReadFile) Execute(_ context.Context, raw json.RawMessage) (string, error) {
	var in readFileInput
	if err := decodeInput(t.Name(), raw, &in); err != nil {
		return "", err
	}
	if in.Path == "" {
		return "", fmt.Errorf("%w: path is required", ErrInvalidArgument)
	}

	abs := t.ws.resolve(in.Path)
	info, err := os.Stat(abs)
	if err != nil {
		return "", fsError("read", in.Path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrInvalidArgument, in.Path)
	}

	b, err := os.ReadFile(abs)
	if err != nil {
		return "", fsError("read", in.Path, err)
	}
	return string(b), nil
}

type ListFiles struct{ ws Workspace }

func (ListFiles) Name() string { return "list_files" }

func (ListFiles) Description() string {
	return "List files and directories at a given path. If no path is provided, lists files in the current directory."
}

func (ListFiles) Schema() Schema {
	return Schema{
		Properties: map[string]Property{
			"path": {Type: "string", Description: "Optional relative path to list files from. Defaults to current directory if not provided."},
		},
	}
}

// Execute returns a JSON array of paths relative to the listed directory, in
// lexical walk order. Directories carry a trailing slash. A symlinked root is
// followed; symlinked directories below it are listed but not descended into.
func (t ListFiles) Execute(_ context.Context, raw json.RawMessage) (string, error) {
	var in listFilesInput
	if err := decodeInput(t.Name(), raw, &in); err != nil {
		return "", err
	}
	if in.Path == "" {
		in.Path = "."
	}

	root, err := filepath.EvalSymlinks(t.ws.resolve(in.Path))
	if err != nil {
		return "", fsError("list", in.Path, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", fsError("list", in.Path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrInvalidArgument, in.Path)
	}

	files := []string{}
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if isDir(p, d) {
			rel += "/"
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return "", fsError("list", in.Path, err)
	}

	b, err := json.Marshal(files)
	if err != nil {
		return "", fmt.Errorf("encode listing: %w", err)
	}
	return string(b), nil
}

func isDir(p string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.IsDir()
	}
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

type EditFile struct{ ws Workspace }

func (EditFile) Name() string { return "edit_file" }

func (EditFile) Description() string {
	return `Make edits to a text file.

Replaces 'old_str' with 'new_str' in the given file. 'old_str' and 'new_str' MUST be different from each other.

If the file specified with path doesn't exist, it will be created.`
}

func (EditFile) Schema() Schema {
	return Schema{
		Properties: map[string]Property{
			"path":    {Type: "string", Description: "The path to the file"},
			"old_str": {Type: "string", Description: "Text to search for - must match exactly"},
			"new_str": {Type: "string", Description: "Text to replace old_str with"},
		},
		Required: []string{"path", "old_str", "new_str"},
	}
}

// Execute replaces every occurrence of old_str. A missing file with an empty
// old_str is created with new_str as its content. An existing file with an
// empty old_str is rejected rather than overwritten.
func (t EditFile) Execute(_ context.Context, raw json.RawMessage) (string, error) {
	var in editFileInput
	if err := decodeInput(t.Name(), raw, &in); err != nil {
		return "", err
	}
	if in.Path == "" {
		return "", fmt.Errorf("%w: path is required", ErrInvalidArgument)
	}
	if in.OldStr == in.NewStr {
		return "", fmt.Errorf("%w: old_str and new_str must differ", ErrInvalidArgument)
	}

	abs := t.ws.resolve(in.Path)
	b, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) && in.OldStr == "" {
		return createFile(abs, in.Path, in.NewStr)
	}
	if err != nil {
		return "", fsError("read", in.Path, err)
	}
	if in.OldStr == "" {
		return "", fmt.Errorf("%w: old_str must not be empty when %s already exists", ErrInvalidArgument, in.Path)
	}

	content := string(b)
	if !strings.Contains(content, in.OldStr) {
		return "", fmt.Errorf("%w: old_str not found in file", ErrNotFound)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fsError("stat", in.Path, err)
	}
	updated := strings.ReplaceAll(content, in.OldStr, in.NewStr)
	if err := os.WriteFile(abs, []byte(updated), info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("write %s: %w", in.Path, err)
	}
	return "OK", nil
}

func createFile(abs, rel, content string) (string, error) {
	if dir := filepath.Dir(abs); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", filepath.Dir(rel), err)
		}
	}
	if err := os.WriteFile(abs, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", rel, err)
	}
	return fmt.Sprintf("Successfully created file %s", rel), nil
}

func fsError(op, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s %s: no such file or directory", ErrNotFound, op, path)
	case errors.Is(err, fs.ErrInvalid):
		return fmt.Errorf("%w: %s %s: %s", ErrInvalidArgument, op, path, err)
	default:
		return fmt.Errorf("%s %s: %w", op, path, err)
	}
}
