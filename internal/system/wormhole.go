package system

// IsWormhole reports whether name is a wormhole (J-space) system name: the
// letter J followed by a decimal digit, e.g. "J154516". Wormhole systems are
// never cached.
func IsWormhole(name string) bool {
	return len(name) >= 2 && name[0] == 'J' && name[1] >= '0' && name[1] <= '9'
}
