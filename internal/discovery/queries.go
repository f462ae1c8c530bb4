// File: backend/internal/discovery/queries.go
package discovery

import "fmt"

// SearchQueries builds the fixed query template set for an operator name.
// Quoted forms anchor the exact brand; unquoted variants widen the net.
func SearchQueries(operatorName string) []string {
	return []string{
		fmt.Sprintf(`"%s" coworking space`, operatorName),
		fmt.Sprintf(`"%s" flexible office`, operatorName),
		fmt.Sprintf(`"%s" workspace`, operatorName),
		fmt.Sprintf(`"%s" shared office`, operatorName),
		fmt.Sprintf(`%s site:*.com`, operatorName),
		fmt.Sprintf(`%s locations offices`, operatorName),
		fmt.Sprintf(`%s coworking`, operatorName),
		fmt.Sprintf(`%s office space`, operatorName),
		fmt.Sprintf(`%s meeting rooms`, operatorName),
	}
}
