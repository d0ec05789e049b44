package auth

// SetCompare swaps the password comparison for tests.
func (s *Service) SetCompare(f func(hash, password []byte) error) {
	s.compare = f
}
