package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// ESNList is the parsed contents of esns.ini: the last-discovered
// one-wire device list (spec.md §6). The one-wire discovery protocol
// itself is out of scope (spec.md §1); this package only persists and
// reloads whatever list it last produced.
type ESNList struct {
	Entries map[string][8]byte
}

// LoadESNList parses esns.ini, a flat [esns] section mapping a device
// name to a hex-encoded 64-bit ROM id.
func LoadESNList(path string) (*ESNList, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: loading esn list %q: %w", path, err)
	}
	list := &ESNList{Entries: make(map[string][8]byte)}
	section := file.Section("esns")
	for _, key := range section.Keys() {
		var esn [8]byte
		copyHexESN(esn[:], key.String())
		list.Entries[key.Name()] = esn
	}
	return list, nil
}

// SaveESNList writes the list back out, overwriting path.
func SaveESNList(path string, list *ESNList) error {
	file := ini.Empty()
	section, err := file.NewSection("esns")
	if err != nil {
		return err
	}
	for name, esn := range list.Entries {
		_, err := section.NewKey(name, fmt.Sprintf("%02X%02X%02X%02X%02X%02X%02X%02X",
			esn[0], esn[1], esn[2], esn[3], esn[4], esn[5], esn[6], esn[7]))
		if err != nil {
			return err
		}
	}
	return file.SaveTo(path)
}
