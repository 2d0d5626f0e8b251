// Package manifest provides the manifest schema, YAML and HCL parsing,
// validation and the sample manifest written by "configen init".
//
// A manifest lists the callables to generate configs for, in order, plus
// output settings and the externally generated structures that may be
// referenced as nested configs.
//
// # Schema Overview
//
// YAML:
//
//	version: "1"
//	header: "Copyright 2026 Acme"
//	output:
//	  dir: ./conf
//	  package: conf
//	default_flags:
//	  convert: all        # none | partial | object | all
//	  recursive: false
//	known_types:
//	  time.Duration: string
//	structures:
//	  - name: example.com/other.Pool
//	    package: example.com/other/conf
//	    type: PoolConf
//	targets:
//	  - example.com/svc.Inner       # shorthand
//	  - name: example.com/svc.Server
//	    constructor: NewServer
//	    defaults:
//	      port: 8080
//
// HCL (selected by the .hcl extension):
//
//	version = "1"
//	output {
//	  dir     = "./conf"
//	  package = "conf"
//	}
//	target "example.com/svc.Server" {
//	  constructor = "NewServer"
//	  defaults    = { port = 8080 }
//	}
package manifest
