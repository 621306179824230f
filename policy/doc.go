// Package policy provides optional declarative rules that decide which agent
// tools a run may offer to the model – for example to block sensitive tools
// for anonymous sessions or to restrict a deployment to read-only tools.
package policy
