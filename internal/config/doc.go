// Package config provides configuration parsing for jml sites.
//
// The configuration is stored in jml.json at the project root.
// This package handles loading, saving, and validating configuration.
// Command line flags override individual fields after loading.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "localhost",
//	    "port": 3000,
//	    "pretty": false,
//	    "static": "public"
//	  },
//	  "pages": {
//	    "dir": "pages"
//	  },
//	  "build": {
//	    "output": "dist",
//	    "pretty": true
//	  },
//	  "dev": {
//	    "watch": ["pages"],
//	    "interval": "500ms",
//	    "reload": true
//	  }
//	}
//
// Pages can come from S3 instead of a directory:
//
//	"pages": {
//	  "bucket": "my-site",
//	  "prefix": "pages/",
//	  "region": "eu-west-1"
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Address:", cfg.Address())
package config
