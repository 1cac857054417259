// FILE: faultline/src/internal/fault/kind.go
package fault

import "fmt"

// Kind is the classification of a typed error.
type Kind int

const (
	KindGeneric Kind = iota
	KindStorage
	KindValidation
	KindRemoteAPI
	KindConfiguration
	KindTimeout
)

// KindDatabase is the storage kind under the name used by data-layer callers.
const KindDatabase = KindStorage

var kindNames = [...]string{
	KindGeneric:       "Generic",
	KindStorage:       "Storage",
	KindValidation:    "Validation",
	KindRemoteAPI:     "RemoteAPI",
	KindConfiguration: "Configuration",
	KindTimeout:       "Timeout",
}

func (k Kind) String() string {
	if k >= KindGeneric && k <= KindTimeout {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a kind name back to its value.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	if name == "Database" {
		return KindStorage, nil
	}
	return KindGeneric, fmt.Errorf("unknown error kind: %s", name)
}
