package gqlclient

// DynamicQueryError is returned when an anonymous operation is executed
// without opting into dynamic queries.
type DynamicQueryError struct{}

func (e *DynamicQueryError) Error() string {
	return "refusing to execute an anonymous operation; name it or enable dynamic queries"
}
