//
//  Copyright © Manetu Inc. All rights reserved.
//

package common

import (
	"encoding/json"
	"fmt"
	"io"
)

// PrettyPrint writes an indented JSON representation of the provided data
// structure to w.
func PrettyPrint(w io.Writer, data interface{}) error {
	p, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", p)
	return err
}
