package main

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func bindFlags(v *viper.Viper, flags ...*pflag.Flag) {
	for _, f := range flags {
		_ = v.BindPFlag(f.Name, f)
	}
}
