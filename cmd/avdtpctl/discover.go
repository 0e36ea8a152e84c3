package main

import (
	"fmt"
	"strings"

	"github.com/currantlabs/avdtp"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/urfave/cli"
	"golang.org/x/net/context"
)

func cmdDiscover(c *cli.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.GlobalDuration("tmo"))
	defer cancel()
	ctx = withSigHandler(ctx, cancel)

	p, err := connect(ctx, c)
	if err != nil {
		return chkErr(err)
	}
	defer p.Close()

	eps, err := p.Discover(ctx)
	if err != nil {
		return chkErr(errors.Wrap(err, "can't discover"))
	}
	if len(eps) == 0 {
		pterm.Info.Println("No stream endpoints")
		return nil
	}

	data := pterm.TableData{{"SEID", "Media", "Type", "In use"}}
	if c.Bool("caps") {
		data[0] = append(data[0], "Capabilities")
	}
	for _, ep := range eps {
		row := []string{
			fmt.Sprintf("%d", ep.ID),
			ep.MediaType.String(),
			ep.EndpointType.String(),
			fmt.Sprintf("%t", ep.InUse),
		}
		if c.Bool("caps") {
			caps, err := p.GetAllCapabilities(ctx, ep.ID)
			if err != nil {
				return chkErr(errors.Wrapf(err, "can't get capabilities of %s", ep.ID))
			}
			row = append(row, describeCapabilities(caps))
		}
		data = append(data, row)
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func describeCapabilities(caps []avdtp.ServiceCapability) string {
	var s []string
	for _, c := range caps {
		switch c := c.(type) {
		case avdtp.MediaCodec:
			s = append(s, fmt.Sprintf("%s(%s % X)", c.CodecType, c.MediaType, c.CodecExtra))
		case avdtp.ContentProtection:
			s = append(s, fmt.Sprintf("%s(%s)", c.Category(), c.Type))
		case avdtp.Recovery:
			s = append(s, fmt.Sprintf("%s(window %d, packets %d)", c.Category(), c.MaxRecoveryWindowSize, c.MaxNumberMediaPackets))
		default:
			s = append(s, c.Category().String())
		}
	}
	return strings.Join(s, ", ")
}
