// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package doc

import (
	"embed"

	"gopkg.in/yaml.v3"
)

// FS embeds the OpenAPI document.
//
//go:embed stakevault.yaml
var FS embed.FS
var version string

// Version open api version
func Version() string {
	return version
}

type openAPIInfo struct {
	Info struct {
		Version string
	}
	Paths map[string]map[string]any
}

// Paths lists the documented routes as "METHOD /path".
func Paths() []string {
	return paths
}

var paths []string

func init() {
	content, err := FS.ReadFile("stakevault.yaml")
	if err != nil {
		panic(err)
	}

	var oai openAPIInfo
	if err := yaml.Unmarshal(content, &oai); err != nil {
		panic(err)
	}
	version = oai.Info.Version
	for p, methods := range oai.Paths {
		for m := range methods {
			paths = append(paths, m+" "+p)
		}
	}
}
