package policy

import "github.com/kelseyhightower/envconfig"

// FromEnv builds a Policy from WEBVH_IGNORE_* environment variables, for
// test harnesses that want to flip a bypass switch without constructing a
// Policy literal. Unset variables leave their flag at false. Mirrors the
// teacher's envVars/envconfig.Process pattern in pkg/configuration.
func FromEnv() (Policy, error) {
	var p Policy
	if err := envconfig.Process("webvh", &p); err != nil {
		return Policy{}, err
	}
	return p, nil
}
