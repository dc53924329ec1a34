package options

// InputKind classifies a link input.
type InputKind uint8

const (
	// InputFile is an object file, archive or shared object path.
	InputFile InputKind = iota + 1
	// InputLibrary is a -l<name> library reference.
	InputLibrary
	// InputLinkerArg is a raw linker argument from -Wl, or -Xlinker.
	InputLinkerArg
)

// String returns the kind name.
func (k InputKind) String() string {
	switch k {
	case InputFile:
		return "file"
	case InputLibrary:
		return "library"
	case InputLinkerArg:
		return "linker-arg"
	default:
		return "unknown"
	}
}

// Input is one link input. Relative order of inputs is significant.
type Input struct {
	Kind  InputKind
	Value string
}

// File returns a file input.
func File(path string) Input { return Input{Kind: InputFile, Value: path} }

// Library returns a -l input.
func Library(name string) Input { return Input{Kind: InputLibrary, Value: name} }

// LinkerArg returns a raw linker argument input.
func LinkerArg(arg string) Input { return Input{Kind: InputLinkerArg, Value: arg} }

// Render returns the linker command-line form of the input.
func (in Input) Render() string {
	if in.Kind == InputLibrary {
		return "-l" + in.Value
	}
	return in.Value
}

// Filename reports whether the input names a file on disk.
func (in Input) Filename() (string, bool) {
	if in.Kind == InputFile {
		return in.Value, true
	}
	return "", false
}
