// Package config handles loading and managing reactive.json project
// configuration.
//
// The configuration file lives at the project root and controls the
// inspector server, the benchmark workloads, and the trace archive:
//
//	{
//	  "name": "my-app",
//	  "inspect": {
//	    "host": "localhost",
//	    "port": 6061
//	  },
//	  "bench": {
//	    "profile": "wide",
//	    "iterations": 10000
//	  }
//	}
//
// All fields are optional; missing values fall back to defaults.
package config
