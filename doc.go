// Plot builds single and multi panel figures from raw numeric arrays on
// top of gonum/plot.
//
//
// Figures, Panels and Series
//
// A Figure is a grid of panels. Each panel shows one or more overplotted
// Series. A Series carries its data and all of its options in one record:
//      s := plot.Series{
//          Kind:  plot.MeanAndUncert,
//          X:     lat,
//          Y:     bias,
//          NBins: 36,
//          Label: "AVHRR bias",
//      }
// Options which should apply to several series must be set on every one
// of them.
//
//
// Plot Kinds
//
//     scatter          points, lines or both, optional y error bars
//     hist2d           2D histogram drawn as a heat map
//     mean             y binned along x, mean or median per bin
//     mean_and_uncert  as mean plus error bars of the uncertainty
//     scattergeo       longitude/latitude points coloured by z
//     scattermapbox    as scattergeo in Web Mercator projection
//     densitymapbox    z-weighted density in Web Mercator projection
//
// The binned kinds use package stat. Robust statistics, outlier
// rejection and the minimum bin population are panel options.
//
//
// Masks and Flags
//
// XMask and YMask exclude samples, a true entry meaning "excluded".
// Binned kinds require both masks to be identical. DataFlags and Flags
// derive an additional mask from quality flags, see FlagMask.
//
//
// Rendering
//
// Render turns every panel into a *plot.Plot of gonum/plot, computing
// the panels concurrently. Save and WriteImage export the tiled figure in
// any format gonum/plot supports, sized by the figure's ExportConfig.
package plot
