package stream

import "os"

// filePlugin is the "none" compression method: writes pass straight
// through to the destination file with no subprocess involved.
type filePlugin struct{}

type fileStream struct {
	*os.File
	name string
}

func (f *fileStream) Name() string { return f.name }

func (filePlugin) Open(path string, mode string) (Stream, error) {
	flag := os.O_RDONLY
	if mode == "wb" || mode == "w" {
		flag = os.O_CREATE | os.O_TRUNC | os.O_WRONLY
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, err
	}
	return &fileStream{File: f, name: path}, nil
}

func (filePlugin) Ext() string { return "" }

func init() {
	Register("none", nil, func(string) Plugin { return filePlugin{} })
}
