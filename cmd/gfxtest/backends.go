package main

import (
	"fmt"

	"github.com/gogpu/gfxtest/device"
	"github.com/gogpu/gfxtest/shader"
	"github.com/spf13/cobra"
)

func newBackendsCommand(a *app) *cobra.Command {
	var probe bool
	cmd := &cobra.Command{
		Use:   "backends",
		Short: "List graphics APIs and whether a device can be created",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := a.context()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-8s %-8s %-10s %s\n", "API", "ENABLED", "REGISTERED", "DEVICE")
			for _, api := range device.APIs() {
				enabled := ctx.EnabledAPIs.Has(api)
				registered := device.IsRegistered(api)
				status := "-"
				if probe && enabled && registered {
					status = probeDevice(api, ctx.GlobalSession)
				}
				fmt.Fprintf(out, "%-8s %-8s %-10s %s\n", api, yesNo(enabled), yesNo(registered), status)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&probe, "probe", true, "try to create a device for each enabled, registered API")
	return cmd
}

func probeDevice(api device.API, global *shader.GlobalSession) string {
	dev, err := device.Create(device.Desc{API: api, GlobalSession: global, Label: "gfxtest backends"})
	if err != nil {
		return "error: " + err.Error()
	}
	defer dev.Destroy()
	return "ok (" + dev.AdapterName() + ")"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
