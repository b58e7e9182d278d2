package options

// LiveStore reads and writes option values through a running editor.
type LiveStore struct {
	entityStore
	native Native
}

// NewLiveStore returns a store backed by native.
func NewLiveStore(native Native) *LiveStore {
	return &LiveStore{native: native}
}

// Mode returns ModeLive.
func (s *LiveStore) Mode() Mode {
	return ModeLive
}

// Get returns the editor's current value of name.
func (s *LiveStore) Get(name string) (any, bool) {
	return s.native.Option(name)
}

// Set writes v through the editor, which normalises it.
func (s *LiveStore) Set(name string, v any) error {
	return s.native.SetOption(name, v)
}

// Entity returns the editor's own value for name when it reports one, and
// the cached entity otherwise.
func (s *LiveStore) Entity(name string) (any, bool) {
	if en, ok := s.native.(EntityNative); ok {
		if v, ok := en.OptionEntity(name); ok {
			return v, true
		}
	}
	return s.entityStore.Entity(name)
}
